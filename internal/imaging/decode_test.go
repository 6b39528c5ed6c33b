package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestDecoder_Formats(t *testing.T) {
	src := solidImage(20, 10, color.NRGBA{10, 200, 30, 255})
	pngData := encodeTestPNG(t, src)

	encoders := map[string]func(*bytes.Buffer) error{
		"png": func(b *bytes.Buffer) error { _, err := b.Write(pngData); return err },
		"jpeg": func(b *bytes.Buffer) error {
			return jpeg.Encode(b, src, &jpeg.Options{Quality: 90})
		},
		"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
		"tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) },
	}

	for format, encode := range encoders {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf); err != nil {
				t.Fatalf("failed to encode %s: %v", format, err)
			}

			img, err := NewDecoder().Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Format != format {
				t.Errorf("Format: got %s, want %s", img.Format, format)
			}
			if img.Width != 20 || img.Height != 10 {
				t.Errorf("dimensions: got %dx%d, want 20x10", img.Width, img.Height)
			}
			if img.Bounds() != image.Rect(0, 0, 20, 10) {
				t.Errorf("bounds: got %v", img.Bounds())
			}
		})
	}
}

func TestDecoder_PixelsAreNRGBA(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{255, 0, 0, 128})

	img, err := NewDecoder().Decode(encodeTestPNG(t, src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	got := img.Pixels.NRGBAAt(1, 1)
	want := color.NRGBA{255, 0, 0, 128}
	if got != want {
		t.Errorf("pixel: got %v, want %v", got, want)
	}
}

func TestDecoder_UnknownFormat(t *testing.T) {
	_, err := NewDecoder().Decode([]byte("not an image"))
	if err == nil {
		t.Fatal("Decode should fail for non-image data")
	}
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("expected image.ErrFormat in chain, got %v", err)
	}

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Format != "" {
		t.Errorf("Format: got %q, want empty", de.Format)
	}
}

func TestDecoder_Empty(t *testing.T) {
	for _, data := range [][]byte{nil, {}} {
		_, err := NewDecoder().Decode(data)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	}
}

func TestDecoder_TruncatedPNG(t *testing.T) {
	data := encodeTestPNG(t, quadrantImage(64, 64))

	_, err := NewDecoder().Decode(data[:len(data)/2])
	if err == nil {
		t.Fatal("Decode should fail for truncated data")
	}

	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Format != "png" {
		t.Errorf("Format: got %q, want png", de.Format)
	}
	if de.Error() == "" {
		t.Error("empty error message")
	}
}

func TestDecoder_DoesNotRetainInput(t *testing.T) {
	data := encodeTestPNG(t, solidImage(3, 3, color.NRGBA{1, 2, 3, 255}))

	img, err := NewDecoder().Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := range data {
		data[i] = 0
	}
	if got := img.Pixels.NRGBAAt(0, 0); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("pixels changed after input was overwritten: %v", got)
	}
}
