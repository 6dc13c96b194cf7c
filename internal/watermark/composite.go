package watermark

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	imgx "github.com/ironsheep/luma-watermark/internal/imaging"
)

// BlendMode controls how overlay pixels are combined with the photo.
type BlendMode int

const (
	// BlendOverwrite copies overlay pixels over the photo unchanged,
	// transparency included. JPEG output then drops the alpha channel.
	BlendOverwrite BlendMode = iota
	// BlendAlpha composites the overlay over the photo using its alpha
	// channel.
	BlendAlpha
)

func (b BlendMode) String() string {
	switch b {
	case BlendOverwrite:
		return "overwrite"
	case BlendAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(b))
	}
}

// ParseBlendMode accepts "overwrite" (or "copy") and "alpha".
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "copy", "":
		return BlendOverwrite, nil
	case "alpha":
		return BlendAlpha, nil
	default:
		return 0, fmt.Errorf("unknown blend mode %q (want overwrite or alpha)", s)
	}
}

// Composite draws overlay onto a copy of photo at the position given by
// placement. Neither input is modified.
//
// # Errors
//
//   - ErrPlacementOverflow if the overlay does not fit inside the photo at
//     the computed offset.
func Composite(photo, overlay image.Image, placement Placement, mode BlendMode) (image.Image, error) {
	pb := photo.Bounds()
	size := overlay.Bounds().Size()
	dst := placement.Destination(pb, size)

	if size.X <= 0 || size.Y <= 0 || !dst.In(pb) {
		return nil, fmt.Errorf("%w: %dx%d overlay at %v on %dx%d photo",
			imgx.ErrPlacementOverflow, size.X, size.Y, dst.Min.Sub(pb.Min), pb.Dx(), pb.Dy())
	}

	switch mode {
	case BlendAlpha:
		under := imaging.Crop(photo, dst)
		return imaging.Paste(photo, blend.Normal(under, overlay), dst.Min), nil
	default:
		return imaging.Paste(photo, overlay, dst.Min), nil
	}
}
