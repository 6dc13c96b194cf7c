package watermark

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/luma-watermark/internal/imaging"
)

// Options is the per-run configuration of a Processor. It is copied on
// construction and never changed afterwards.
type Options struct {
	Threshold      float64
	SamplesPerAxis int
	Placement      Placement
	Blend          BlendMode
	Resize         bool
	MaxWidth       int
	MaxHeight      int
	Quality        int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Threshold:      DefaultThreshold,
		SamplesPerAxis: imaging.DefaultSamplesPerAxis,
		Placement:      Placement{Mode: Corner, Margin: 50},
		Blend:          BlendOverwrite,
		Resize:         true,
		MaxWidth:       1500,
		MaxHeight:      1500,
		Quality:        imaging.MaxJPEGQuality,
	}
}

// Result describes what Process did to one photo.
type Result struct {
	Variant   Variant
	Luminance *imaging.LuminanceSample
	Offset    image.Point
	Width     int
	Height    int
	Resized   bool
}

// Processor watermarks photos with a fixed pair of overlays.
type Processor struct {
	opts   Options
	assets *Assets
	log    zerolog.Logger
}

// NewProcessor binds options and overlays. assets is shared and never
// modified. Overlays that fail to load fail only the photos that need them.
func NewProcessor(opts Options, assets *Assets, logger zerolog.Logger) *Processor {
	return &Processor{opts: opts, assets: assets, log: logger}
}

// Options returns the processor's options.
func (p *Processor) Options() Options {
	return p.opts
}

// Process normalizes photo when resizing is enabled, measures the placement
// area, picks the overlay and composites it. orientation is the photo's
// EXIF orientation and only matters when resizing.
func (p *Processor) Process(photo image.Image, orientation int) (image.Image, *Result, error) {
	res := &Result{}

	if p.opts.Resize {
		normalized, err := imaging.Normalize(photo, orientation, p.opts.MaxWidth, p.opts.MaxHeight)
		if err != nil {
			return nil, nil, fmt.Errorf("resize: %w", err)
		}
		photo = normalized
		res.Resized = true
	}

	pb := photo.Bounds()
	footprint, err := p.assets.Footprint()
	if err != nil {
		return nil, nil, err
	}
	region := p.opts.Placement.SampleRegion(pb, footprint)
	variant, sample, err := SelectOverlay(photo, region, p.opts.Threshold, p.opts.SamplesPerAxis)
	if err != nil {
		return nil, nil, fmt.Errorf("sample luminance: %w", err)
	}
	res.Luminance = sample
	res.Variant = variant

	asset, err := p.assets.Get(variant)
	if err != nil {
		return nil, nil, err
	}
	out, err := Composite(photo, asset.Image, p.opts.Placement, p.opts.Blend)
	if err != nil {
		return nil, nil, err
	}
	res.Offset = p.opts.Placement.Offset(pb.Size(), image.Pt(asset.Width, asset.Height))
	res.Width, res.Height = pb.Dx(), pb.Dy()

	return out, res, nil
}

// ProcessFile watermarks the JPEG at inPath and writes it to outPath. The
// input file is left untouched and nothing is written on failure. Resized
// output is written as a progressive JPEG.
func (p *Processor) ProcessFile(inPath, outPath string) (*Result, error) {
	photo, err := imaging.DecodeJPEGFile(inPath)
	if err != nil {
		return nil, err
	}

	orientation := imaging.OrientationNormal
	if p.opts.Resize {
		orientation = imaging.ReadOrientation(inPath)
	}

	out, res, err := p.Process(photo, orientation)
	if err != nil {
		return nil, err
	}

	p.log.Debug().
		Str("file", inPath).
		Float64("luminance", res.Luminance.Average).
		Int("samples", res.Luminance.Samples).
		Str("region", res.Luminance.Region.String()).
		Str("mean_color", res.Luminance.MeanHex()).
		Stringer("variant", res.Variant).
		Int("x", res.Offset.X).
		Int("y", res.Offset.Y).
		Msg("overlay selected")

	jpegOpts := imaging.JPEGOptions{Quality: p.opts.Quality, Progressive: res.Resized}
	if err := imaging.WriteJPEG(outPath, out, jpegOpts); err != nil {
		return nil, err
	}
	return res, nil
}
