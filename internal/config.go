package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/media"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	Export ExportConfig      `yaml:"export"`
	Media  MediaConfig       `yaml:"media"`
	Serve  ServeConfig       `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	if err := c.Media.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
//
// Verbosity maps onto log levels: 0 errors only, 1 adds warnings, 2 adds
// info, 3 adds debug.
type ApplicationConfig struct {
	Verbosity int `yaml:"verbosity"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Verbosity, validation.Min(0), validation.Max(3)),
	)
}

// LogLevel returns the slog level for the configured verbosity.
func (c *ApplicationConfig) LogLevel() slog.Level {
	switch c.Verbosity {
	case 0:
		return slog.LevelError
	case 1:
		return slog.LevelWarn
	case 3:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ExportConfig controls the dataset output.
type ExportConfig struct {
	// OutputPath is the pages JSON file the exporter writes.
	OutputPath string `yaml:"output_path"`
	// NotePrefix is prepended to resolved note link URIs.
	NotePrefix string `yaml:"note_prefix"`
	// Domain, when set, makes asset URLs absolute.
	Domain string `yaml:"domain"`
	// MediaResultsPath, when set, additionally writes the media catalog.
	MediaResultsPath string `yaml:"media_results_path"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputPath, validation.Required),
		validation.Field(&c.NotePrefix, validation.Required),
	)
}

// MediaConfig controls the media optimization pipeline and embed
// resolution.
type MediaConfig struct {
	OutputDir string `yaml:"output_dir"`
	Prefix    string `yaml:"prefix"`
	// Optimize disables resizing/re-encoding when false; originals are
	// still copied through and cataloged.
	Optimize bool `yaml:"optimize"`
	// Skip bypasses the media pipeline entirely.
	Skip bool `yaml:"skip"`
	// SkipExisting leaves already-present output bytes untouched.
	SkipExisting bool `yaml:"skip_existing"`
	// Force rewrites outputs even when SkipExisting is set.
	Force         bool             `yaml:"force"`
	PreferredSize string           `yaml:"preferred_size"`
	Placeholder   string           `yaml:"placeholder"`
	Sizes         []media.SizeSpec `yaml:"sizes"`
	Formats       []string         `yaml:"formats"`
}

// Validate validates the media configuration.
func (c *MediaConfig) Validate() error {
	if c.Skip {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Prefix, validation.Required),
	)
}

// ServeConfig holds the preview server configuration.
type ServeConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP listen address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			Verbosity: 2,
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		Export: ExportConfig{
			OutputPath: "dist/pages.json",
			NotePrefix: "/content",
		},
		Media: MediaConfig{
			OutputDir:   "dist/assets",
			Prefix:      "/assets",
			Optimize:    true,
			Placeholder: "/assets/placeholder.png",
		},
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
