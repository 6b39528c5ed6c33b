package imaging

// ImageInfo contains metadata about a decoded image.
//
// This struct provides essential information about an image without requiring
// the caller to analyze the pixel data directly.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", "bmp", "tiff"
	// or "webp". Detection is based on the encoded content, not the URL.
	Format string `json:"format"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// BitDepth is the bits per channel of the encoded source: 8 or 16.
	BitDepth int `json:"bit_depth"`

	// SizeBytes is the size of the encoded source in bytes. It is zero, and
	// omitted from JSON, when the caller did not supply it.
	SizeBytes int `json:"size_bytes,omitempty"`
}

// Describe returns metadata for a decoded image.
//
// Parameters:
//   - img: The decoded image. Must not be nil.
//   - sizeBytes: Length of the encoded buffer img was decoded from. Pass 0 if
//     unknown.
//
// Alpha detection inspects the pixels rather than the color model, so a PNG
// with an alpha channel where every pixel is opaque reports HasAlpha=false.
func Describe(img *DecodedImage, sizeBytes int) *ImageInfo {
	return &ImageInfo{
		Width:     img.Width,
		Height:    img.Height,
		Format:    img.Format,
		HasAlpha:  !img.Pixels.Opaque(),
		BitDepth:  img.BitDepth,
		SizeBytes: sizeBytes,
	}
}
