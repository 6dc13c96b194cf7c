package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"
)

// ImageCache keeps decoded overlay assets so that a batch decodes each one
// only once.
//
// Cached images are shared by every photo in the batch and must never be
// drawn into. ImageCache is safe for concurrent use.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	logo, err := cache.LoadPNG("logos/light.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// LoadPNG returns the PNG at path, decoding it on first use.
//
// Parameters:
//   - path: File path of the overlay. Used as the cache key.
//
// Returns:
//   - image.Image: The decoded overlay, shared with every other caller.
//   - error: Non-nil if the file could not be read or decoded. Failures are
//     not cached, so a later call tries again.
//
// The cache is keyed by the exact path string; different spellings of the
// same file produce separate entries.
//
// # Errors
//
//   - Returns an error if the file cannot be opened.
//   - Returns an error wrapping ErrDecode if the file is not a valid PNG.
func (c *ImageCache) LoadPNG(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := decodeFile(path, pngFormat)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// DecodeJPEGFile decodes the photo at path. It is not cached: photos are
// owned by a single processing operation.
//
// # Errors
//
//   - Returns an error if the file cannot be opened.
//   - Returns an error wrapping ErrDecode if the file is not a valid JPEG.
func DecodeJPEGFile(path string) (image.Image, error) {
	return decodeFile(path, jpegFormat)
}

type format struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

var (
	jpegFormat = format{name: "jpeg", magic: "\xff\xd8", decode: jpeg.Decode}
	pngFormat  = format{name: "png", magic: "\x89PNG\r\n\x1a\n", decode: png.Decode}
)

// decodeFile checks the file signature before decoding, so a PNG named
// ".jpg" is reported as a decode failure rather than silently accepted.
func decodeFile(path string, f format) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	head, err := br.Peek(len(f.magic))
	if err != nil || string(head) != f.magic {
		return nil, fmt.Errorf("%w: %s is not a %s file", ErrDecode, path, f.name)
	}

	img, err := f.decode(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}
