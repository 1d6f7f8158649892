// Package imaging provides the pixel-level operations of the dataset
// generator: decoding and caching source images, resizing sprites,
// compositing them onto a background, encoding results, and rendering
// annotated previews.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Rectangles are
// inclusive at Min and exclusive at Max, as in the standard image package.
//
// # Immutability
//
// Every function that produces an image returns a new *image.NRGBA. Inputs
// (the background canvas, cached sources, resized sprites) are never drawn
// into, which lets one canvas and one sprite pool serve many goroutines.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Compose, ResizeIcon and Preview are
// stateless. An Encoder may be shared between goroutines.
package imaging
