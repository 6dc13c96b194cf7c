// Package config loads the settings of a watermark run from defaults, an
// optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/luma-watermark/internal/watermark"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "LUMA_"

// Config holds the settings of a watermark run.
type Config struct {
	InputDirectory     string  `yaml:"input_directory"`
	OutputDirectory    string  `yaml:"output_directory"`
	LightOverlayPath   string  `yaml:"light_overlay_path"`
	DarkOverlayPath    string  `yaml:"dark_overlay_path"`
	LuminanceThreshold float64 `yaml:"luminance_threshold"`
	CornerMargin       int     `yaml:"corner_margin"`
	MaxOutputWidth     int     `yaml:"max_output_width"`
	MaxOutputHeight    int     `yaml:"max_output_height"`
	SamplesPerAxis     int     `yaml:"samples_per_axis"`
	Placement          string  `yaml:"placement"`
	Blend              string  `yaml:"blend"`
	Resize             bool    `yaml:"resize"`
	JPEGQuality        int     `yaml:"jpeg_quality"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		InputDirectory:     "input",
		OutputDirectory:    "output",
		LightOverlayPath:   "logos/light.png",
		DarkOverlayPath:    "logos/dark.png",
		LuminanceThreshold: watermark.DefaultThreshold,
		CornerMargin:       50,
		MaxOutputWidth:     1500,
		MaxOutputHeight:    1500,
		SamplesPerAxis:     10,
		Placement:          watermark.Corner.String(),
		Blend:              watermark.BlendOverwrite.String(),
		Resize:             true,
		JPEGQuality:        100,
	}
}

// LoadFromFile reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.NormalizePaths()

	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from LUMA_* environment variables. Values that
// do not parse are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	c.InputDirectory = getEnv("INPUT_DIR", c.InputDirectory)
	c.OutputDirectory = getEnv("OUTPUT_DIR", c.OutputDirectory)
	c.LightOverlayPath = getEnv("LIGHT_OVERLAY", c.LightOverlayPath)
	c.DarkOverlayPath = getEnv("DARK_OVERLAY", c.DarkOverlayPath)
	c.Placement = getEnv("PLACEMENT", c.Placement)
	c.Blend = getEnv("BLEND", c.Blend)

	var err error
	if c.LuminanceThreshold, err = getEnvAsFloat("LUMINANCE_THRESHOLD", c.LuminanceThreshold); err != nil {
		return err
	}
	if c.CornerMargin, err = getEnvAsInt("CORNER_MARGIN", c.CornerMargin); err != nil {
		return err
	}
	if c.MaxOutputWidth, err = getEnvAsInt("MAX_WIDTH", c.MaxOutputWidth); err != nil {
		return err
	}
	if c.MaxOutputHeight, err = getEnvAsInt("MAX_HEIGHT", c.MaxOutputHeight); err != nil {
		return err
	}
	if c.SamplesPerAxis, err = getEnvAsInt("SAMPLES_PER_AXIS", c.SamplesPerAxis); err != nil {
		return err
	}
	if c.JPEGQuality, err = getEnvAsInt("JPEG_QUALITY", c.JPEGQuality); err != nil {
		return err
	}
	if c.Resize, err = getEnvAsBool("RESIZE", c.Resize); err != nil {
		return err
	}

	c.NormalizePaths()
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.InputDirectory == "" {
		return fmt.Errorf("input_directory cannot be empty")
	}
	if c.OutputDirectory == "" {
		return fmt.Errorf("output_directory cannot be empty")
	}
	if sameDir(c.InputDirectory, c.OutputDirectory) {
		return fmt.Errorf("output_directory must differ from input_directory so originals are preserved")
	}
	if c.LightOverlayPath == "" || c.DarkOverlayPath == "" {
		return fmt.Errorf("light_overlay_path and dark_overlay_path are required")
	}
	if c.LuminanceThreshold < 0 || c.LuminanceThreshold > 255 {
		return fmt.Errorf("luminance_threshold must be between 0 and 255")
	}
	if c.CornerMargin < 0 {
		return fmt.Errorf("corner_margin cannot be negative")
	}
	if c.MaxOutputWidth < 1 || c.MaxOutputHeight < 1 {
		return fmt.Errorf("max_output_width and max_output_height must be positive")
	}
	if c.SamplesPerAxis < 1 {
		return fmt.Errorf("samples_per_axis must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}
	if _, err := watermark.ParseMode(c.Placement); err != nil {
		return err
	}
	if _, err := watermark.ParseBlendMode(c.Blend); err != nil {
		return err
	}
	return nil
}

// Options converts the configuration into processor options. Call Validate
// first; unparsable placement or blend names fall back to their defaults.
func (c *Config) Options() watermark.Options {
	mode, _ := watermark.ParseMode(c.Placement)
	blend, _ := watermark.ParseBlendMode(c.Blend)
	return watermark.Options{
		Threshold:      c.LuminanceThreshold,
		SamplesPerAxis: c.SamplesPerAxis,
		Placement:      watermark.Placement{Mode: mode, Margin: c.CornerMargin},
		Blend:          blend,
		Resize:         c.Resize,
		MaxWidth:       c.MaxOutputWidth,
		MaxHeight:      c.MaxOutputHeight,
		Quality:        c.JPEGQuality,
	}
}

// NormalizePaths trims trailing separators from the directories, keeping a
// lone "/" intact. File and environment values are normalized on load; call
// it again after overriding directories from other sources.
func (c *Config) NormalizePaths() {
	c.InputDirectory = trimDir(c.InputDirectory)
	c.OutputDirectory = trimDir(c.OutputDirectory)
}

// sameDir compares two directory spellings after resolving them against the
// working directory.
func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func trimDir(dir string) string {
	trimmed := strings.TrimRight(dir, `/\`)
	if trimmed == "" && dir != "" {
		return dir[:1]
	}
	return trimmed
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultVal float64) (float64, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}
