package imaging

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exifOrientationSegment builds an APP1 segment holding a big-endian TIFF
// header and a single IFD0 Orientation entry.
func exifOrientationSegment(orientation uint16) []byte {
	var tiff bytes.Buffer
	tiff.WriteString("MM")
	binary.Write(&tiff, binary.BigEndian, uint16(42))
	binary.Write(&tiff, binary.BigEndian, uint32(8))
	binary.Write(&tiff, binary.BigEndian, uint16(1))      // entry count
	binary.Write(&tiff, binary.BigEndian, uint16(0x0112)) // Orientation
	binary.Write(&tiff, binary.BigEndian, uint16(3))      // SHORT
	binary.Write(&tiff, binary.BigEndian, uint32(1))
	binary.Write(&tiff, binary.BigEndian, orientation)
	binary.Write(&tiff, binary.BigEndian, uint16(0))
	binary.Write(&tiff, binary.BigEndian, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var seg bytes.Buffer
	seg.Write([]byte{0xFF, 0xE1})
	binary.Write(&seg, binary.BigEndian, uint16(len(payload)+2))
	seg.Write(payload)
	return seg.Bytes()
}

// writeJPEGWithOrientation encodes img as a JPEG carrying the given EXIF
// orientation and returns its path.
func writeJPEGWithOrientation(t *testing.T, img image.Image, orientation uint16) string {
	t.Helper()

	var enc bytes.Buffer
	require.NoError(t, jpeg.Encode(&enc, img, &jpeg.Options{Quality: 100}))
	raw := enc.Bytes()

	var out bytes.Buffer
	out.Write(raw[:2]) // SOI
	out.Write(exifOrientationSegment(orientation))
	out.Write(raw[2:])

	path := filepath.Join(t.TempDir(), "oriented.jpg")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0o644))
	return path
}

func TestReadOrientation(t *testing.T) {
	img := createInMemoryImage(16, 8, color.RGBA{200, 100, 50, 255})

	for _, o := range []uint16{1, 3, 6, 8} {
		path := writeJPEGWithOrientation(t, img, o)
		assert.Equal(t, int(o), ReadOrientation(path), "orientation %d", o)

		// The EXIF segment must not break decoding.
		decoded, err := DecodeJPEGFile(path)
		require.NoError(t, err)
		assert.Equal(t, 16, decoded.Bounds().Dx())
	}
}

func TestReadOrientation_Missing(t *testing.T) {
	assert.Equal(t, OrientationNormal, ReadOrientation("/nonexistent/photo.jpg"))

	path := writeJPEGFile(t, createInMemoryImage(8, 8, color.White))
	assert.Equal(t, OrientationNormal, ReadOrientation(path))
}

// createStripe is a 2x1 image: red on the left, blue on the right.
func createStripe() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})
	return img
}

func TestRotate(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	tests := []struct {
		name        string
		orientation int
		wantSize    image.Point
		want        map[image.Point]color.NRGBA
	}{
		{"180", OrientationRotate180, image.Pt(2, 1), map[image.Point]color.NRGBA{{0, 0}: blue, {1, 0}: red}},
		{"clockwise", OrientationRotateCW, image.Pt(1, 2), map[image.Point]color.NRGBA{{0, 0}: red, {0, 1}: blue}},
		{"counter-clockwise", OrientationRotateCCW, image.Pt(1, 2), map[image.Point]color.NRGBA{{0, 0}: blue, {0, 1}: red}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(createStripe(), tt.orientation)
			require.Equal(t, tt.wantSize, got.Bounds().Size())
			for p, c := range tt.want {
				assert.Equal(t, c, color.NRGBAModel.Convert(got.At(p.X, p.Y)), "pixel %v", p)
			}
		})
	}
}

func TestRotate_OtherOrientationsUnchanged(t *testing.T) {
	src := createStripe()
	for _, o := range []int{0, 1, 2, 4, 5, 7, 9} {
		assert.Same(t, src, Rotate(src, o), "orientation %d", o)
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"landscape width-bound", 3000, 2000, 1500, 1500, 1500, 1000},
		{"portrait height-bound", 2000, 3000, 1500, 1500, 1000, 1500},
		{"square", 4000, 4000, 1500, 1500, 1500, 1500},
		{"small image is scaled up", 300, 200, 1500, 1500, 1500, 1000},
		{"wide box", 1000, 1000, 1600, 900, 900, 900},
		{"truncates", 1000, 3, 100, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestFitSize_Invalid(t *testing.T) {
	_, _, err := FitSize(0, 10, 100, 100)
	require.ErrorIs(t, err, ErrInvalidRegion)

	_, _, err = FitSize(10, 10, 0, 100)
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	img := createInMemoryImage(300, 200, color.RGBA{10, 20, 30, 255})

	got, err := Normalize(img, OrientationNormal, 150, 150)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(150, 100), got.Bounds().Size())

	// Rotated first, then fitted.
	got, err = Normalize(img, OrientationRotateCW, 150, 150)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 150), got.Bounds().Size())
}

func TestNormalize_LargePhoto(t *testing.T) {
	if testing.Short() {
		t.Skip("resamples a 3000x2000 image")
	}
	img := image.NewRGBA(image.Rect(0, 0, 3000, 2000))

	got, err := Normalize(img, OrientationNormal, 1500, 1500)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1500, 1000), got.Bounds().Size())
}

func TestNormalize_AlreadyFits(t *testing.T) {
	img := createInMemoryImage(150, 100, color.White)

	got, err := Normalize(img, OrientationNormal, 150, 150)
	require.NoError(t, err)
	assert.Same(t, img, got)
}
