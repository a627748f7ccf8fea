// Package imaging provides the raster plumbing of the document scanner.
//
// This package loads and stores images and turns a full-resolution photograph
// into the small binary edge map that the line detector works on. All
// operations use standard Go image.Image types and a coordinate system where
// (0,0) is at the top-left corner, X increases rightward, and Y increases
// downward.
//
// # Preprocessing
//
// Preprocess runs the fixed front half of the scanner pipeline:
//
//  1. Downscale: the image is resized so its width is close to a working
//     floor (200 pixels by default), with the reduction factor capped (10x
//     by default). The factor is returned as Working.Scale so corners found
//     in working space can be mapped back to the original.
//  2. Grayscale: luminance with ITU-R BT.601 weights.
//  3. Threshold: Otsu's method picks a global binarization level from the
//     gray histogram.
//  4. Edges: Canny edge detection with the Otsu level as the high threshold
//     and half of it as the low threshold.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless, borrows its input, and returns a newly allocated image, so
// different images can be processed concurrently.
//
// # Error Handling
//
// Functions return errors for:
//   - Empty (zero width or height) images
//   - File I/O errors during image loading or saving
//   - Unsupported or corrupt image data
//   - Malformed color strings
package imaging
