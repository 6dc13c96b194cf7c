package imaging

import (
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultSamplesPerAxis is the sample grid size used when callers have no
// reason to pick another.
const DefaultSamplesPerAxis = 10

// LuminanceSample is the outcome of sampling a region's brightness.
type LuminanceSample struct {
	// Average is Sum divided by Samples+1, which sits slightly below the
	// true mean.
	Average float64

	// Sum is the total of the per-sample luminance values.
	Sum float64

	// Samples is the number of pixels actually visited.
	Samples int

	// Region is the area that was sampled.
	Region Region

	// MeanColor is the plain mean of the visited pixels' RGB values.
	MeanColor colorful.Color
}

// MeanHex returns MeanColor in "#rrggbb" form.
func (s *LuminanceSample) MeanHex() string {
	return s.MeanColor.Clamped().Hex()
}

// PixelLuminance weights the 8-bit channels toward green: (2R + 3G + B) / 6.
//
// The result ranges from 0 (black) to 255 (white).
func PixelLuminance(r, g, b uint8) float64 {
	return float64(2*int(r)+3*int(g)+int(b)) / 6
}

// AverageLuminance estimates the brightness of a region by sampling a grid
// of samplesPerAxis points along each axis. See SampleLuminance.
func AverageLuminance(img image.Image, region Region, samplesPerAxis int) (float64, error) {
	sample, err := SampleLuminance(img, region, samplesPerAxis)
	if err != nil {
		return 0, err
	}
	return sample.Average, nil
}

// SampleLuminance visits a grid of pixels inside region and accumulates their
// luminance.
//
// Parameters:
//   - img: The image to sample. It is only read.
//   - region: The area to measure, in img's coordinate space.
//   - samplesPerAxis: Target number of samples along each axis (>= 1).
//
// Returns:
//   - *LuminanceSample: Average, sum, sample count and mean colour.
//   - error: Non-nil if the region or grid size is unusable.
//
// # Sampling Grid
//
// The step along each axis is region size / samplesPerAxis, rounded down and
// never less than 1, so regions narrower than the grid are sampled at every
// pixel and produce more samples per row than requested. The running count
// starts at 1, so the average is Sum / (Samples + 1).
//
// # Errors
//
//   - ErrInvalidRegion if the region is empty, outside the image bounds, or
//     samplesPerAxis is not positive.
func SampleLuminance(img image.Image, region Region, samplesPerAxis int) (*LuminanceSample, error) {
	if samplesPerAxis < 1 {
		return nil, fmt.Errorf("%w: samples per axis must be positive, got %d", ErrInvalidRegion, samplesPerAxis)
	}
	if region.Empty() {
		return nil, fmt.Errorf("%w: %s has no area", ErrInvalidRegion, region)
	}
	bounds := img.Bounds()
	if !region.Within(bounds) {
		return nil, fmt.Errorf("%w: %s outside image bounds %v", ErrInvalidRegion, region, bounds)
	}

	xStep := max(region.Width/samplesPerAxis, 1)
	yStep := max(region.Height/samplesPerAxis, 1)

	var total, sumR, sumG, sumB float64
	count := 1

	for x := region.X; x < region.X+region.Width; x += xStep {
		for y := region.Y; y < region.Y+region.Height; y += yStep {
			r, g, b := rgb8(img, x, y)
			total += PixelLuminance(r, g, b)
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(b)
			count++
		}
	}

	samples := count - 1
	n := float64(samples) * 255
	return &LuminanceSample{
		Average:   total / float64(count),
		Sum:       total,
		Samples:   samples,
		Region:    region,
		MeanColor: colorful.Color{R: sumR / n, G: sumG / n, B: sumB / n},
	}, nil
}

// rgb8 reads a pixel and drops it to 8 bits per channel.
func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
