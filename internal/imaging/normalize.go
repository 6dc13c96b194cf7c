package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// EXIF orientation values that Normalize corrects.
const (
	OrientationNormal    = 1
	OrientationRotate180 = 3
	OrientationRotateCW  = 6
	OrientationRotateCCW = 8
)

// ReadOrientation returns the EXIF orientation of the file at path.
// Files without EXIF data, or with an unreadable tag, report
// OrientationNormal.
func ReadOrientation(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return OrientationNormal
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return OrientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil {
		return OrientationNormal
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationNormal
	}
	return v
}

// Rotate applies the corrective rotation for an EXIF orientation:
// 3 turns the image 180°, 6 turns it 90° clockwise and 8 turns it 90°
// counter-clockwise. Any other value returns img unchanged.
func Rotate(img image.Image, orientation int) image.Image {
	switch orientation {
	case OrientationRotate180:
		return imaging.Rotate180(img)
	case OrientationRotateCW:
		return imaging.Rotate270(img)
	case OrientationRotateCCW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// FitSize scales width x height to fit inside maxWidth x maxHeight while
// keeping the aspect ratio. The bounding dimension is used as-is and the
// other is truncated, so images smaller than the box are scaled up.
func FitSize(width, height, maxWidth, maxHeight int) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: image size %dx%d", ErrInvalidRegion, width, height)
	}
	if maxWidth <= 0 || maxHeight <= 0 {
		return 0, 0, fmt.Errorf("maximum size must be positive, got %dx%d", maxWidth, maxHeight)
	}

	ratio := float64(width) / float64(height)
	w, h := float64(maxWidth), float64(maxHeight)
	if w/h > ratio {
		w = h * ratio
	} else {
		h = w / ratio
	}

	return max(int(w), 1), max(int(h), 1), nil
}

// Normalize rotates img according to orientation and resamples it to the
// largest size that fits inside maxWidth x maxHeight.
func Normalize(img image.Image, orientation, maxWidth, maxHeight int) (image.Image, error) {
	rotated := Rotate(img, orientation)

	b := rotated.Bounds()
	w, h, err := FitSize(b.Dx(), b.Dy(), maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}
	if w == b.Dx() && h == b.Dy() {
		return rotated, nil
	}

	return imaging.Resize(rotated, w, h, imaging.Lanczos), nil
}
