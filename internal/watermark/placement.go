package watermark

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/luma-watermark/internal/imaging"
)

// Mode selects where the overlay goes on the photo.
type Mode int

const (
	// Corner insets the overlay from the bottom-right corner by the margin.
	Corner Mode = iota
	// FullBleed places the overlay at the photo's origin, for cover-style
	// overlays designed to span the photo.
	FullBleed
)

func (m Mode) String() string {
	switch m {
	case Corner:
		return "corner"
	case FullBleed:
		return "full-bleed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "corner" and "full-bleed" (also "fullbleed" and
// "cover"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "corner", "":
		return Corner, nil
	case "full-bleed", "fullbleed", "cover":
		return FullBleed, nil
	default:
		return 0, fmt.Errorf("unknown placement %q (want corner or full-bleed)", s)
	}
}

// Placement fixes where an overlay lands on a photo.
type Placement struct {
	Mode   Mode
	Margin int
}

// Offset returns the overlay's top-left corner relative to the photo's
// origin.
func (p Placement) Offset(photo, overlay image.Point) image.Point {
	if p.Mode == FullBleed {
		return image.Point{}
	}
	return image.Pt(photo.X-overlay.X-p.Margin, photo.Y-overlay.Y-p.Margin)
}

// Destination returns the rectangle the overlay will cover, in the photo's
// coordinate space.
func (p Placement) Destination(photo image.Rectangle, overlay image.Point) image.Rectangle {
	origin := photo.Min.Add(p.Offset(photo.Size(), overlay))
	return image.Rectangle{Min: origin, Max: origin.Add(overlay)}
}

// SampleRegion is the part of the photo whose brightness decides the
// variant. For Corner it spans from twice the margin above and left of the
// overlay to the photo's bottom-right edge; for FullBleed it is the whole
// photo. The result is clipped to the photo.
func (p Placement) SampleRegion(photo image.Rectangle, footprint image.Point) imaging.Region {
	if p.Mode == FullBleed {
		return imaging.RegionFromRect(photo)
	}
	x := photo.Max.X - footprint.X - 2*p.Margin
	y := photo.Max.Y - footprint.Y - 2*p.Margin
	r := imaging.Region{X: x, Y: y, Width: photo.Max.X - x, Height: photo.Max.Y - y}
	return r.ClampTo(photo)
}
