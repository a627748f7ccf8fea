package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "doc-scanner"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "DOC_SCANNER"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with its own viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load reads defaults, the first doc-scanner.yaml found on the search path,
// and environment variables, then validates the result.
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithFile("")
}

// LoadWithFile is like Load but reads configFile instead of searching for a
// configuration file. An empty configFile searches as Load does.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
		if err := l.v.ReadInConfig(); err != nil {
			// A missing config file is fine; defaults and env vars apply.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	return l.unmarshal()
}

// Reload unmarshals the current state again, picking up flags bound after
// the initial load.
func (l *Loader) Reload() (*Config, error) {
	return l.unmarshal()
}

// BindPFlag binds a command-line flag to a configuration key. Flags that
// were set explicitly override every other source.
func (l *Loader) BindPFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// GetConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

func (l *Loader) unmarshal() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "doc-scanner"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "doc-scanner"))
	}

	l.v.AddConfigPath("/etc/doc-scanner")
}

// setupEnvironmentVariables maps keys such as scan.page_width to
// DOC_SCANNER_SCAN_PAGE_WIDTH.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options. Every key
// needs a default so that AutomaticEnv can see it during Unmarshal.
func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)
	l.v.SetDefault("log_format", d.LogFormat)
	l.v.SetDefault("workers", d.Workers)

	l.v.SetDefault("scan.min_working_width", d.Scan.MinWorkingWidth)
	l.v.SetDefault("scan.max_scale", d.Scan.MaxScale)
	l.v.SetDefault("scan.page_width", d.Scan.PageWidth)
	l.v.SetDefault("scan.page_height", d.Scan.PageHeight)
	l.v.SetDefault("scan.line_divisor", d.Scan.LineDivisor)
	l.v.SetDefault("scan.max_line_gap", d.Scan.MaxLineGap)
	l.v.SetDefault("scan.fill_color", d.Scan.FillColor)
	l.v.SetDefault("scan.strict", d.Scan.Strict)

	l.v.SetDefault("output.suffix", d.Output.Suffix)
	l.v.SetDefault("output.format", d.Output.Format)
}
