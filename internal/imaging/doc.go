// Package imaging provides the pixel-level operations used by the watermark
// pipeline: decoding photos and overlay assets, sampling luminance over a
// region, and normalizing photo orientation and size before compositing.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. A Region is described by
// its top-left corner and its size; the right and bottom edges are exclusive.
//
// # Ownership
//
// Photos decoded with DecodeJPEGFile belong to the caller and are expected to
// live for a single processing operation. Overlay assets loaded through
// ImageCache are shared between photos and must be treated as read-only.
// ImageCache itself is safe for concurrent use.
//
// # Error Handling
//
// Failures are reported with the sentinel errors ErrDecode, ErrInvalidRegion,
// ErrPlacementOverflow and ErrEncode, wrapped with file or geometry context.
// Match them with errors.Is.
package imaging
