package config

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/ironsheep/doc-scanner/internal/detection"
	"github.com/ironsheep/doc-scanner/internal/imaging"
	"github.com/ironsheep/doc-scanner/internal/rectify"
	"github.com/ironsheep/doc-scanner/internal/scanner"
)

// Config represents the complete configuration for doc-scanner. It is loaded
// from defaults, an optional YAML file, DOC_SCANNER_* environment variables
// and command-line flags, in increasing order of precedence.
type Config struct {
	// Global settings
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Workers   int    `mapstructure:"workers" yaml:"workers" json:"workers"`

	// Detection and rectification
	Scan ScanConfig `mapstructure:"scan" yaml:"scan" json:"scan"`

	// Output files
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
}

// ScanConfig contains the pipeline parameters.
type ScanConfig struct {
	MinWorkingWidth int     `mapstructure:"min_working_width" yaml:"min_working_width" json:"min_working_width"`
	MaxScale        float64 `mapstructure:"max_scale" yaml:"max_scale" json:"max_scale"`
	PageWidth       int     `mapstructure:"page_width" yaml:"page_width" json:"page_width"`
	PageHeight      int     `mapstructure:"page_height" yaml:"page_height" json:"page_height"`
	LineDivisor     int     `mapstructure:"line_divisor" yaml:"line_divisor" json:"line_divisor"`
	MaxLineGap      int     `mapstructure:"max_line_gap" yaml:"max_line_gap" json:"max_line_gap"`
	FillColor       string  `mapstructure:"fill_color" yaml:"fill_color" json:"fill_color"`
	Strict          bool    `mapstructure:"strict" yaml:"strict" json:"strict"`
}

// OutputConfig controls where rectified pages are written.
type OutputConfig struct {
	// Suffix is appended to the input base name.
	Suffix string `mapstructure:"suffix" yaml:"suffix" json:"suffix"`

	// Format overrides the output extension (png, jpg, ...). Empty keeps
	// the input's format.
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"text", "json"}
	validOutputFormats = []string{"jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff"}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Workers:   runtime.NumCPU(),
		Scan: ScanConfig{
			MinWorkingWidth: imaging.DefaultMinWorkingWidth,
			MaxScale:        imaging.DefaultMaxScale,
			PageWidth:       rectify.PageWidth,
			PageHeight:      rectify.PageHeight,
			LineDivisor:     detection.DefaultLineDivisor,
			MaxLineGap:      detection.DefaultMaxLineGap,
			FillColor:       "#000000",
		},
		Output: OutputConfig{
			Suffix: "_rectified",
		},
	}
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format: %s (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid workers: %d (must be positive)", c.Workers)
	}

	positive := []struct {
		name  string
		value int
	}{
		{"scan.min_working_width", c.Scan.MinWorkingWidth},
		{"scan.page_width", c.Scan.PageWidth},
		{"scan.page_height", c.Scan.PageHeight},
		{"scan.line_divisor", c.Scan.LineDivisor},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("invalid %s: %d (must be positive)", p.name, p.value)
		}
	}
	if c.Scan.MaxScale <= 0 {
		return fmt.Errorf("invalid scan.max_scale: %v (must be positive)", c.Scan.MaxScale)
	}
	if c.Scan.MaxLineGap < 0 {
		return fmt.Errorf("invalid scan.max_line_gap: %d (must not be negative)", c.Scan.MaxLineGap)
	}
	if _, err := imaging.ParseHexColor(c.Scan.FillColor); err != nil {
		return fmt.Errorf("invalid scan.fill_color: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(c.Output.Format), ".")
	if format != "" && !slices.Contains(validOutputFormats, format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validOutputFormats, ", "))
	}
	return nil
}

// ScannerOptions converts the scan section into scanner options.
func (c *Config) ScannerOptions(logger *slog.Logger) (scanner.Options, error) {
	fill, err := imaging.ParseHexColor(c.Scan.FillColor)
	if err != nil {
		return scanner.Options{}, fmt.Errorf("invalid scan.fill_color: %w", err)
	}
	return scanner.Options{
		MinWorkingWidth: c.Scan.MinWorkingWidth,
		MaxScale:        c.Scan.MaxScale,
		LineDivisor:     c.Scan.LineDivisor,
		MaxLineGap:      c.Scan.MaxLineGap,
		PageWidth:       c.Scan.PageWidth,
		PageHeight:      c.Scan.PageHeight,
		Fill:            fill,
		Strict:          c.Scan.Strict,
		Logger:          logger,
	}, nil
}

// Level returns the slog level for LogLevel. Unknown names map to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a logger writing to w in LogFormat at Level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
