package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// DefaultEdgeRadius is the kernel radius used when callers pass zero.
const DefaultEdgeRadius = 1.0

// EdgeDetect produces a grayscale edge map of img, encoded as PNG.
//
// Edges are white on a black background. Larger radius values pick up
// broader, softer edges at the cost of more work per pixel; the radius must
// not be negative.
func EdgeDetect(img image.Image, radius float64) (*EncodedImage, error) {
	if radius < 0 {
		return nil, fmt.Errorf("edge radius must not be negative, got %.2f", radius)
	}
	if radius == 0 {
		radius = DefaultEdgeRadius
	}

	gray := effect.Grayscale(effect.EdgeDetection(img, radius))
	return encodePNG(gray)
}
