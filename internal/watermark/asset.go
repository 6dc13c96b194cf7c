// Package watermark chooses between a light and a dark overlay from the
// brightness of the area it will cover and composites it onto photos.
package watermark

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/luma-watermark/internal/imaging"
)

// Variant names one of the two overlay assets.
type Variant int

const (
	// Light is the light-coloured logo, used on dark backgrounds.
	Light Variant = iota
	// Dark is the dark-coloured logo, used on bright backgrounds.
	Dark
)

func (v Variant) String() string {
	switch v {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Asset is an overlay image bound to its variant.
type Asset struct {
	Variant Variant
	Image   image.Image
	Width   int
	Height  int
}

func newAsset(v Variant, img image.Image) Asset {
	b := img.Bounds()
	return Asset{Variant: v, Image: img, Width: b.Dx(), Height: b.Dy()}
}

// source is either an already-decoded overlay or a path to load it from.
type source struct {
	path string
	img  image.Image
}

// Assets holds the light and dark overlays for a batch. Overlays given as
// paths are decoded on first use through an ImageCache, so a broken overlay
// only fails the photos that need it. Decoded images are shared read-only by
// every photo processed.
type Assets struct {
	cache *imaging.ImageCache
	light source
	dark  source
}

// NewAssets pairs two already-decoded overlays.
func NewAssets(light, dark image.Image) *Assets {
	return &Assets{light: source{img: light}, dark: source{img: dark}}
}

// LoadAssets returns overlays read from lightPath and darkPath through cache.
// Nothing is decoded until an overlay is first needed.
func LoadAssets(cache *imaging.ImageCache, lightPath, darkPath string) *Assets {
	return &Assets{cache: cache, light: source{path: lightPath}, dark: source{path: darkPath}}
}

// Get returns the asset for v, decoding it if needed.
//
// # Errors
//
//   - Returns an error wrapping imaging.ErrDecode if the overlay file is
//     missing or cannot be decoded. Failed loads are retried on the next call.
func (a *Assets) Get(v Variant) (Asset, error) {
	src := a.light
	if v == Dark {
		src = a.dark
	}
	if src.img != nil {
		return newAsset(v, src.img), nil
	}

	img, err := a.cache.LoadPNG(src.path)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			return Asset{}, fmt.Errorf("%s overlay: %w", v, err)
		}
		return Asset{}, fmt.Errorf("%w: %s overlay: %w", imaging.ErrDecode, v, err)
	}
	return newAsset(v, img), nil
}

// Footprint is the smallest size that holds either overlay. Sampling over it
// measures the whole area whichever variant ends up being placed.
//
// An overlay that cannot be loaded is left out, so the other one can still be
// used. Only when neither loads is an error returned.
func (a *Assets) Footprint() (image.Point, error) {
	var fp image.Point
	var errs []error
	for _, v := range []Variant{Light, Dark} {
		asset, err := a.Get(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fp.X = max(fp.X, asset.Width)
		fp.Y = max(fp.Y, asset.Height)
	}
	if len(errs) == 2 {
		return image.Point{}, errors.Join(errs...)
	}
	return fp, nil
}
