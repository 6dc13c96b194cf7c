// Package batch walks an input directory and watermarks every JPEG in it,
// one file at a time.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/luma-watermark/internal/watermark"
)

// FileProcessor watermarks a single file. *watermark.Processor satisfies it.
type FileProcessor interface {
	ProcessFile(inPath, outPath string) (*watermark.Result, error)
}

// Summary counts the outcome of a run.
type Summary struct {
	Processed int // Photos watermarked and written
	Skipped   int // Entries that are not .jpg files, including directories
	Failed    int // Photos that could not be decoded, watermarked or written
}

// Runner processes the files of one input directory into an output
// directory.
type Runner struct {
	inputDir  string
	outputDir string
	proc      FileProcessor
	log       zerolog.Logger
}

// New creates a Runner. Directories are used as given; resolve them once
// before calling.
func New(inputDir, outputDir string, proc FileProcessor, logger zerolog.Logger) *Runner {
	return &Runner{inputDir: inputDir, outputDir: outputDir, proc: proc, log: logger}
}

// IsJPEG reports whether name ends in ".jpg", ignoring case.
func IsJPEG(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".jpg")
}

// Run processes every entry of the input directory in name order. A file
// that fails is logged and counted, and the run moves on to the next one;
// only an unreadable input directory stops the run.
func (r *Runner) Run() (*Summary, error) {
	entries, err := os.ReadDir(r.inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		r.log.Warn().Err(err).Str("dir", r.outputDir).Msg("Could not create output directory")
	}

	summary := &Summary{}
	for _, entry := range entries {
		inPath := filepath.Join(r.inputDir, entry.Name())
		logger := r.log.With().Str("file", inPath).Logger()

		if entry.IsDir() {
			logger.Debug().Msg("Directory, skipping.")
			summary.Skipped++
			continue
		}
		if !IsJPEG(entry.Name()) {
			logger.Info().Msg("Image is not in JPG format, skipping.")
			summary.Skipped++
			continue
		}

		logger.Info().Msg("Processing image")
		outPath := filepath.Join(r.outputDir, entry.Name())
		res, err := r.proc.ProcessFile(inPath, outPath)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to apply watermark to image, skipping.")
			summary.Failed++
			continue
		}

		logger.Info().
			Stringer("variant", res.Variant).
			Bool("resized", res.Resized).
			Int("width", res.Width).
			Int("height", res.Height).
			Str("output", outPath).
			Msg("Watermark applied to image")
		summary.Processed++
	}

	r.log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Complete.")

	return summary, nil
}
