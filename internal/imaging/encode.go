package imaging

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegli"
)

// MaxJPEGQuality is the quality used for watermarked output.
const MaxJPEGQuality = 100

// progressiveLevel is the jpegli progression setting for interlaced output.
// 0 would be sequential; 2 is the most progression steps jpegli offers.
const progressiveLevel = 2

// JPEGOptions controls how WriteJPEG encodes.
type JPEGOptions struct {
	// Quality is the JPEG quality, 1 to 100.
	Quality int

	// Progressive selects an interlaced (SOF2) file instead of a baseline
	// (SOF0) one, so viewers can show a coarse version while it loads.
	Progressive bool
}

// WriteJPEG encodes img to path, replacing any existing file.
//
// Parameters:
//   - path: Destination file. Its directory must exist.
//   - img: The image to encode.
//   - opts: Quality and progressive mode.
//
// Returns:
//   - error: Non-nil, wrapping ErrEncode, if the file could not be written.
//
// # Atomicity
//
// The image is first written to a temporary file next to path and renamed
// into place once encoding succeeds, so a failed write never leaves a
// truncated output behind.
//
// # Encoders
//
// Baseline files go through imaging.Encode. Progressive files are encoded
// with jpegli, since the standard library encoder only writes baseline.
func WriteJPEG(path string, img image.Image, opts JPEGOptions) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	tmpName := tmp.Name()

	encErr := encodeJPEG(tmp, img, opts)
	closeErr := tmp.Close()
	if encErr == nil {
		encErr = closeErr
	}
	if encErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, encErr)
	}

	// CreateTemp makes the file 0600; outputs are meant to be shared.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	return nil
}

func encodeJPEG(w io.Writer, img image.Image, opts JPEGOptions) error {
	if !opts.Progressive {
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	}
	return jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:          opts.Quality,
		ProgressiveLevel: progressiveLevel,
	})
}
