package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/ironsheep/luma-watermark/internal/batch"
	"github.com/ironsheep/luma-watermark/internal/config"
	"github.com/ironsheep/luma-watermark/internal/imaging"
	"github.com/ironsheep/luma-watermark/internal/watermark"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("luma-watermark", flag.ContinueOnError)
	fs.SetOutput(stdout)

	configPath := fs.StringP("config", "c", "", "YAML configuration file")
	envFile := fs.String("env-file", ".env", "dotenv file with LUMA_* variables (ignored if missing)")
	input := fs.StringP("input", "i", "", "input directory (default \"input\")")
	output := fs.StringP("output", "o", "", "output directory (default \"output\")")
	light := fs.String("light", "", "light overlay PNG (default \"logos/light.png\")")
	dark := fs.String("dark", "", "dark overlay PNG (default \"logos/dark.png\")")
	threshold := fs.Float64P("threshold", "t", 0, "luminance threshold 0-255 (default 170)")
	margin := fs.IntP("margin", "m", 0, "corner margin in pixels (default 50)")
	maxWidth := fs.Int("max-width", 0, "maximum output width (default 1500)")
	maxHeight := fs.Int("max-height", 0, "maximum output height (default 1500)")
	samples := fs.Int("samples", 0, "luminance samples per axis (default 10)")
	placement := fs.StringP("placement", "p", "", "overlay placement: corner|full-bleed (default corner)")
	blend := fs.String("blend", "", "overlay blend: overwrite|alpha (default overwrite; overwrite copies transparent pixels as black into the JPEG, use alpha for logos with transparency)")
	noResize := fs.Bool("no-resize", false, "skip EXIF rotation and resizing")
	quality := fs.Int("quality", 0, "JPEG output quality 1-100 (default 100)")
	logFormat := fs.String("log-format", "console", "log output: console|json")
	debug := fs.BoolP("debug", "d", false, "log luminance diagnostics for every photo")
	version := fs.BoolP("version", "v", false, "print version information")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *version {
		fmt.Fprintf(stdout, "luma-watermark %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	}

	logger := newLogger(stdout, *logFormat, *debug)

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Error().Err(err).Msg("Failed to load env file")
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			logger.Error().Err(err).Str("path", *configPath).Msg("Failed to load config")
			return 1
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		logger.Error().Err(err).Msg("Invalid environment setting")
		return 1
	}

	// Flags win over file and environment, but only when given.
	if fs.Changed("input") {
		cfg.InputDirectory = *input
	}
	if fs.Changed("output") {
		cfg.OutputDirectory = *output
	}
	if fs.Changed("light") {
		cfg.LightOverlayPath = *light
	}
	if fs.Changed("dark") {
		cfg.DarkOverlayPath = *dark
	}
	if fs.Changed("threshold") {
		cfg.LuminanceThreshold = *threshold
	}
	if fs.Changed("margin") {
		cfg.CornerMargin = *margin
	}
	if fs.Changed("max-width") {
		cfg.MaxOutputWidth = *maxWidth
	}
	if fs.Changed("max-height") {
		cfg.MaxOutputHeight = *maxHeight
	}
	if fs.Changed("samples") {
		cfg.SamplesPerAxis = *samples
	}
	if fs.Changed("placement") {
		cfg.Placement = *placement
	}
	if fs.Changed("blend") {
		cfg.Blend = *blend
	}
	if fs.Changed("quality") {
		cfg.JPEGQuality = *quality
	}
	if *noResize {
		cfg.Resize = false
	}
	cfg.NormalizePaths()

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	cache := imaging.NewImageCache()
	assets := watermark.LoadAssets(cache, cfg.LightOverlayPath, cfg.DarkOverlayPath)
	for _, v := range []watermark.Variant{watermark.Light, watermark.Dark} {
		if _, err := assets.Get(v); err != nil {
			logger.Warn().Err(err).Stringer("variant", v).Msg("Overlay unavailable, photos that need it will fail")
		}
	}

	logger.Debug().
		Str("version", Version).
		Str("input", cfg.InputDirectory).
		Str("output", cfg.OutputDirectory).
		Float64("threshold", cfg.LuminanceThreshold).
		Str("placement", cfg.Placement).
		Int("overlays_loaded", cache.Len()).
		Msg("Starting watermark run")

	proc := watermark.NewProcessor(cfg.Options(), assets, logger)
	runner := batch.New(cfg.InputDirectory, cfg.OutputDirectory, proc, logger)
	if _, err := runner.Run(); err != nil {
		logger.Error().Err(err).Msg("Run aborted")
		return 1
	}

	return 0
}

func newLogger(w io.Writer, format string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if format == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
