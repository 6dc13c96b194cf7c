package imaging

import "errors"

var (
	// ErrDecode is returned when a photo is not a decodable JPEG or an
	// overlay asset is not a decodable PNG.
	ErrDecode = errors.New("decode failed")

	// ErrInvalidRegion is returned for sampling regions that are empty or
	// not contained in the image.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrPlacementOverflow is returned when an overlay would not fit inside
	// the photo at the requested offset.
	ErrPlacementOverflow = errors.New("placement overflows photo bounds")

	// ErrEncode is returned when the output JPEG cannot be written.
	ErrEncode = errors.New("encode failed")
)
