package platform

import (
	"context"

	"github.com/ironsheep/galileo-platform/internal/imaging"
)

// UserAgent identifies every request a native service sends.
const UserAgent = "galileo/0.1"

// Service is the capability interface a host environment provides for
// acquiring images. Renderers depend on Service only; each environment
// supplies its own implementation and the choice is made at composition time.
//
// Implementations must be safe for concurrent use, must not retry, must not
// cache results between calls, and must not mutate their own state on any
// call.
type Service interface {
	// LoadImageURL fetches url and decodes the body. It is exactly
	// LoadBytesFromURL followed by DecodeImage.
	LoadImageURL(ctx context.Context, url string) (*imaging.DecodedImage, error)

	// LoadBytesFromURL fetches url and returns the full response body.
	// The returned slice must be treated as read-only.
	LoadBytesFromURL(ctx context.Context, url string) ([]byte, error)

	// DecodeImage decodes data without performing any I/O.
	DecodeImage(ctx context.Context, data []byte) (*imaging.DecodedImage, error)
}

// ImageDecoder is the collaborator that turns bytes into a decoded image.
// *imaging.Decoder is the default.
type ImageDecoder interface {
	Decode(data []byte) (*imaging.DecodedImage, error)
}
