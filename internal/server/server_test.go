package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNew(t *testing.T) {
	s := New(&fakeService{}, testLogger())
	require.NotNil(t, s)
	assert.Equal(t, DefaultBatchConcurrency, s.batchConcurrency)

	s = New(&fakeService{}, testLogger(), WithBatchConcurrency(9))
	assert.Equal(t, 9, s.batchConcurrency)

	s = New(&fakeService{}, testLogger(), WithBatchConcurrency(0))
	assert.Equal(t, DefaultBatchConcurrency, s.batchConcurrency)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(&fakeService{}, testLogger())

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]interface{})
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
	info := result["serverInfo"].(map[string]interface{})
	assert.Equal(t, "galileo-mcp", info["name"])
	assert.Equal(t, DefaultVersion, info["version"])
}

func TestHandleRequest_InitializeWithVersion(t *testing.T) {
	a := New(&fakeService{}, testLogger(), WithVersion("1.2.3"))
	b := New(&fakeService{}, testLogger(), WithVersion("4.5.6"))

	version := func(s *Server) interface{} {
		resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
		require.NotNil(t, resp)
		result := resp.Result.(map[string]interface{})
		return result["serverInfo"].(map[string]interface{})["version"]
	}

	assert.Equal(t, "1.2.3", version(a))
	assert.Equal(t, "4.5.6", version(b))
	assert.Equal(t, DefaultVersion, version(New(&fakeService{}, testLogger(), WithVersion(""))))
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New(&fakeService{}, testLogger())

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "p", Method: "ping"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "p", resp.ID)
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New(&fakeService{}, testLogger())
	assert.Nil(t, s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"}))
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New(&fakeService{}, testLogger())

	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 3, Method: "resources/list"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "resources/list")
	assert.Nil(t, resp.Error.Data)
}

func TestRun(t *testing.T) {
	s := New(&fakeService{}, testLogger())

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`this is not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")
	var out bytes.Buffer

	require.NoError(t, s.Run(context.Background(), strings.NewReader(in), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var responses []MCPResponse
	for _, line := range lines {
		var resp MCPResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}

	assert.Equal(t, float64(1), responses[0].ID)
	assert.Nil(t, responses[0].Error)

	require.NotNil(t, responses[1].Error)
	assert.Equal(t, -32700, responses[1].Error.Code)
	assert.Nil(t, responses[1].ID)

	assert.Equal(t, float64(2), responses[2].ID)
	assert.Nil(t, responses[2].Error)
}

func TestRun_ContextCanceled(t *testing.T) {
	s := New(&fakeService{}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := s.Run(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRun_CanceledWhileIdle(t *testing.T) {
	s := New(&fakeService{}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr, &out)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel with idle input")
	}
	assert.Empty(t, out.String())
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	s := New(&fakeService{}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	outR, outW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr, outW)
	}()

	go func() {
		_, _ = io.WriteString(pw, `{"jsonrpc":"2.0","id":7,"method":"ping"}`+"\n")
	}()

	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)
	var resp MCPResponse
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, float64(7), resp.ID)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
