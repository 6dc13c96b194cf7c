package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNGFile writes img as a PNG in a temp dir and returns its path.
func writePNGFile(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_LoadPNG(t *testing.T) {
	cache := NewImageCache()
	path := writePNGFile(t, createInMemoryImage(40, 20, color.RGBA{255, 255, 255, 128}))

	img1, err := cache.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 20), img1.Bounds().Size())

	img2, err := cache.LoadPNG(path)
	require.NoError(t, err)
	assert.Same(t, img1, img2, "second load should return the cached image")
	assert.Equal(t, 1, cache.Len())
}

func TestImageCache_LoadPNG_RejectsJPEG(t *testing.T) {
	cache := NewImageCache()
	path := writeJPEGFile(t, createInMemoryImage(10, 10, color.White))

	_, err := cache.LoadPNG(path)
	require.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_LoadPNG_InvalidData(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := cache.LoadPNG(path)
	require.ErrorIs(t, err, ErrDecode)
}

func TestImageCache_LoadPNG_NonExistent(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.LoadPNG("/nonexistent/path/to/logo.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestImageCache_FailedLoadIsNotCached(t *testing.T) {
	cache := NewImageCache()
	path := filepath.Join(t.TempDir(), "late.png")

	_, err := cache.LoadPNG(path)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// The file appearing later is picked up on the next load.
	img := createInMemoryImage(6, 6, color.White)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	loaded, err := cache.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(6, 6), loaded.Bounds().Size())
	assert.Equal(t, 1, cache.Len())
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writePNGFile(t, createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.LoadPNG(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent LoadPNG failed: %v", err)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestDecodeJPEGFile(t *testing.T) {
	path := writeJPEGFile(t, createInMemoryImage(30, 20, color.White))

	img, err := DecodeJPEGFile(path)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(30, 20), img.Bounds().Size())
}

func TestDecodeJPEGFile_RejectsPNG(t *testing.T) {
	path := writePNGFile(t, createInMemoryImage(10, 10, color.White))

	_, err := DecodeJPEGFile(path)
	require.ErrorIs(t, err, ErrDecode)
}
