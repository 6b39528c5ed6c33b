package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/galileo-platform/internal/imaging"
)

var testBuild = BuildInfo{Version: "1.2.3", BuildTime: "2026-10-01T00:00:00Z", GitCommit: "abc1234"}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCommand(testBuild)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func pngServer(t *testing.T) (*httptest.Server, []byte) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 7))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	data := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, data
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "galileo-mcp 1.2.3")
	assert.Contains(t, out, "Git commit: abc1234")

	out, _, err = execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "2026-10-01T00:00:00Z", info["built"])
}

func TestFetch(t *testing.T) {
	srv, _ := pngServer(t)

	out, _, err := execute(t, "", "fetch", srv.URL+"/img.png")
	require.NoError(t, err)

	var info imaging.ImageInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, 12, info.Width)
	assert.Equal(t, 7, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.True(t, info.HasAlpha)
}

func TestFetch_Raw(t *testing.T) {
	srv, data := pngServer(t)

	out, _, err := execute(t, "", "fetch", "--raw", srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, data, []byte(out))
}

func TestFetch_Failure(t *testing.T) {
	srv, _ := pngServer(t)

	_, stderr, err := execute(t, "", "fetch", srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, stderr, "Failed to load image source")
}

func TestServe(t *testing.T) {
	stdin := `{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"

	for _, args := range [][]string{{"serve"}, {}} {
		out, _, err := execute(t, stdin, args...)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"galileo-mcp"`)
		assert.Contains(t, lines[0], `"1.2.3"`)
		assert.Contains(t, lines[1], "image_load_url")
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("GALILEO_LOGGING_FORMAT", "xml")

	_, _, err := execute(t, "", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestVerboseEnablesDebug(t *testing.T) {
	_, stderr, err := execute(t, "", "--verbose", "version")
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
}
