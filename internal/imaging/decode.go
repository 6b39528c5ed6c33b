package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyInput is returned by Decode when the byte buffer holds no data.
var ErrEmptyInput = errors.New("empty image data")

// DecodedImage is a renderer-ready image produced from an encoded byte buffer.
//
// Pixels always holds non-premultiplied 8-bit RGBA samples with the origin at
// (0,0). When the source carried an EXIF orientation tag the pixels have
// already been rotated/flipped so that row 0 is the visual top of the image.
type DecodedImage struct {
	// Pixels is the decoded pixel data.
	Pixels *image.NRGBA

	// Width is the image width in pixels.
	Width int

	// Height is the image height in pixels.
	Height int

	// Format is the name the format registered itself under: "png", "jpeg",
	// "gif", "bmp", "tiff" or "webp".
	Format string

	// BitDepth is the bits per channel of the encoded source, 8 or 16.
	// Pixels is always 8-bit regardless.
	BitDepth int
}

// Bounds returns the pixel rectangle of the image.
func (d *DecodedImage) Bounds() image.Rectangle {
	return d.Pixels.Bounds()
}

// DecodeError reports a failure to turn a byte buffer into a DecodedImage.
type DecodeError struct {
	// Format is the detected format, or empty if the data was not recognized.
	Format string

	// Err is the underlying decoder error.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode %s image: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder converts encoded image bytes into a DecodedImage.
//
// The zero value is ready to use and safe for concurrent use by multiple
// goroutines; it holds no state.
type Decoder struct{}

// NewDecoder returns the default decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes data into a DecodedImage.
//
// Parameters:
//   - data: The complete encoded image. Supported formats are PNG, JPEG, GIF,
//     BMP, TIFF and WebP. The buffer is only read, never retained.
//
// Returns:
//   - *DecodedImage: The decoded, orientation-corrected image.
//   - error: A *DecodeError if the data is empty, not a recognized format, or
//     corrupt. Unrecognized data wraps image.ErrFormat.
func (d *Decoder) Decode(data []byte) (*DecodedImage, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: ErrEmptyInput}
	}

	// DecodeConfig only reads the header, so this is cheap and gives us the
	// format name that imaging.Decode does not report.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	pixels := imaging.Clone(img)
	bounds := pixels.Bounds()

	return &DecodedImage{
		Pixels:   pixels,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		BitDepth: bitDepth(cfg.ColorModel),
	}, nil
}

func bitDepth(m color.Model) int {
	if _, ok := m.(color.Palette); ok {
		return 8
	}
	switch m {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return 16
	default:
		return 8
	}
}
