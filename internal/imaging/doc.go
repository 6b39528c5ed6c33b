// Package imaging decodes encoded image bytes into renderer-ready pixels and
// provides a handful of read-only analysis operations over the result.
//
// # Decoding
//
// Decoder turns a complete encoded buffer (PNG, JPEG, GIF, BMP, TIFF or WebP)
// into a DecodedImage backed by *image.NRGBA. EXIF orientation is applied
// during decoding. Failures are reported as *DecodeError; data in an
// unrecognized format wraps image.ErrFormat so callers can test for it with
// errors.Is.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X increases rightward, Y increases downward
//   - For regions, (X1,Y1) is inclusive and (X2,Y2) is exclusive
//
// # Thread Safety
//
// Decoder holds no state and may be shared freely. The analysis functions
// only read their input image, so they can run concurrently on the same
// DecodedImage as long as nobody mutates its pixels.
//
// # Derived Images
//
// Crop and EdgeDetect return an EncodedImage: a base64 PNG plus its size,
// suitable for embedding in JSON tool responses.
package imaging
