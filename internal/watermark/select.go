package watermark

import (
	"image"

	"github.com/ironsheep/luma-watermark/internal/imaging"
)

// DefaultThreshold is the luminance at or above which a background counts
// as bright.
const DefaultThreshold = 170

// SelectOverlay picks the overlay variant that stays legible over region:
// Dark when the region's average luminance is at least threshold, Light
// otherwise.
//
// Parameters:
//   - img: The photo, already at its final size.
//   - region: The area the overlay will cover. Must lie within img.
//   - threshold: Luminance, 0 to 255, from which a background counts as bright.
//   - samplesPerAxis: Sampling grid size; see imaging.SampleLuminance.
//
// Returns:
//   - Variant: The overlay to place.
//   - *imaging.LuminanceSample: The measurement the choice was based on.
//   - error: Non-nil, wrapping imaging.ErrInvalidRegion, if region is unusable.
func SelectOverlay(img image.Image, region imaging.Region, threshold float64, samplesPerAxis int) (Variant, *imaging.LuminanceSample, error) {
	sample, err := imaging.SampleLuminance(img, region, samplesPerAxis)
	if err != nil {
		return Light, nil, err
	}
	return VariantFor(sample.Average, threshold), sample, nil
}

// VariantFor maps a measured luminance onto a variant.
func VariantFor(luminance, threshold float64) Variant {
	if threshold <= luminance {
		return Dark
	}
	return Light
}
