package imaging

import (
	"fmt"
	"image"
)

// Region represents a rectangular area within an image.
//
// (X, Y) is the top-left corner (inclusive); the area extends Width pixels to
// the right and Height pixels down (exclusive).
type Region struct {
	X      int // Left edge, 0-based
	Y      int // Top edge, 0-based
	Width  int // Width in pixels
	Height int // Height in pixels
}

// RegionFromRect converts an image.Rectangle into a Region.
func RegionFromRect(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether the region lies entirely inside bounds.
func (r Region) Within(bounds image.Rectangle) bool {
	return !r.Empty() && r.Rect().In(bounds)
}

// ClampTo returns the part of the region that overlaps bounds. The result is
// empty when they do not intersect.
func (r Region) ClampTo(bounds image.Rectangle) Region {
	return RegionFromRect(r.Rect().Intersect(bounds))
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
