// Package config loads application settings (viper) and credential files (TOML
// validated against an embedded JSON Schema).
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ByLCY/wificard/i18n"
	"github.com/ByLCY/wificard/layout"
)

// EnvPrefix is the prefix of environment overrides, e.g. WIFICARD_RENDER_PALETTE.
const EnvPrefix = "WIFICARD"

// Config is the root of the application settings.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig configures the zap logger and its optional rotated file output.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal color names.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// RenderConfig controls how pages are composed and drawn.
type RenderConfig struct {
	Palette     string      `mapstructure:"palette" yaml:"palette"`
	Lang        string      `mapstructure:"lang" yaml:"lang"`
	PageSize    string      `mapstructure:"page_size" yaml:"page_size"`
	SkipInvalid bool        `mapstructure:"skip_invalid" yaml:"skip_invalid"`
	Footer      string      `mapstructure:"footer" yaml:"footer"`
	Fonts       FontsConfig `mapstructure:"fonts" yaml:"fonts"`
}

// FontsConfig overrides the built-in Go fonts with TTF/OTF files.
type FontsConfig struct {
	Main  string `mapstructure:"main" yaml:"main"`
	Bold  string `mapstructure:"bold" yaml:"bold"`
	Mono  string `mapstructure:"mono" yaml:"mono"`
	Space string `mapstructure:"space" yaml:"space"`
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "wificard")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Render --
	v.SetDefault("render.palette", layout.DefaultPaletteName)
	v.SetDefault("render.lang", i18n.System)
	v.SetDefault("render.page_size", layout.A4.Name)
	v.SetDefault("render.skip_invalid", false)
	v.SetDefault("render.footer", "")
	v.SetDefault("render.fonts.main", "")
	v.SetDefault("render.fonts.bold", "")
	v.SetDefault("render.fonts.mono", "")
	v.SetDefault("render.fonts.space", "")
}

// Setup points v at the config file (explicit path, or wificard.yaml in the
// working directory and ~/.config/wificard) and the WIFICARD_* environment.
// A missing config file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return fmt.Errorf("expanding config path %q: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "wificard"))
		}
		v.SetConfigName("wificard")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// NewConfigFromViper decodes and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks names that are resolved later so mistakes surface at startup.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logger.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format))
	}
	if c.Logger.MaxSize < 0 || c.Logger.MaxBackups < 0 || c.Logger.MaxAge < 0 {
		errs = append(errs, errors.New("logger rotation settings must not be negative"))
	}
	if _, err := layout.PaletteByName(c.Render.Palette); err != nil {
		errs = append(errs, fmt.Errorf("render.palette: %w", err))
	}
	if _, err := layout.PageSizeByName(c.Render.PageSize); err != nil {
		errs = append(errs, fmt.Errorf("render.page_size: %w", err))
	}
	return errors.Join(errs...)
}

// FontResources returns the layout font table with configured overrides applied.
// Relative paths are resolved against baseDir; "~" is expanded.
func (r RenderConfig) FontResources(baseDir string) (map[string]layout.FontResource, error) {
	fonts := layout.DefaultFonts()
	overrides := map[string]string{
		layout.FontMain:  r.Fonts.Main,
		layout.FontBold:  r.Fonts.Bold,
		layout.FontMono:  r.Fonts.Mono,
		layout.FontSpace: r.Fonts.Space,
	}
	for name, src := range overrides {
		if src == "" {
			continue
		}
		path, err := homedir.Expand(src)
		if err != nil {
			return nil, fmt.Errorf("render.fonts.%s: %w", name, err)
		}
		if !filepath.IsAbs(path) && !strings.HasPrefix(path, "embed:") {
			path = filepath.Join(baseDir, path)
		}
		f := fonts[name]
		f.Src = path
		fonts[name] = f
	}
	return fonts, nil
}
