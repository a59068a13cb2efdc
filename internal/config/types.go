package config

import (
	"time"

	"github.com/pulsestation/pulse/internal/series"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Renderer names accepted by charts.renderer.
const (
	RendererTerminal = "terminal"
	RendererPNG      = "png"
	RendererNone     = "none"
)

// Config represents the complete pulse.yaml configuration file.
type Config struct {
	Version  int                 `yaml:"version" mapstructure:"version"`
	Source   SourceConfig        `yaml:"source" mapstructure:"source"`
	Poll     PollConfig          `yaml:"poll" mapstructure:"poll"`
	Window   time.Duration       `yaml:"window" mapstructure:"window"`
	Limits   map[string]float64  `yaml:"limits" mapstructure:"limits"`
	Charts   ChartsConfig        `yaml:"charts" mapstructure:"charts"`
	Metrics  []series.Descriptor `yaml:"metrics" mapstructure:"metrics"`
	Exporter ExporterConfig      `yaml:"exporter" mapstructure:"exporter"`
	Log      LogConfig           `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the metrics endpoint.
type SourceConfig struct {
	// URL of the endpoint returning the metrics JSON.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds each request. A timed-out request counts as a failed poll.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the polling loop.
type PollConfig struct {
	// Interval between poll cycles.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ChartsConfig selects how charts are drawn.
type ChartsConfig struct {
	// Renderer: "terminal", "png" or "none".
	Renderer string `yaml:"renderer" mapstructure:"renderer"`

	// Dir receives <target>.png files when Renderer is "png".
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ExporterConfig controls the optional HTTP exporter.
type ExporterConfig struct {
	// Addr to listen on, e.g. ":9464". Empty disables the exporter.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level: "debug", "info", "warn" or "error".
	Level string `yaml:"level" mapstructure:"level"`

	// File receives log output. Empty means stderr for headless runs and
	// a file in the temp directory while the TUI owns the terminal.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Source: SourceConfig{
			URL:     "http://localhost:8000/api/data",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			Interval: 60 * time.Second,
		},
		Window: 10 * time.Minute,
		Limits: map[string]float64{
			series.KeyTemperature: 95,
		},
		Charts: ChartsConfig{
			Renderer: RendererTerminal,
			Dir:      "./charts",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Descriptors returns the default metric descriptors with the configured
// overrides applied.
func (c *Config) Descriptors() []series.Descriptor {
	return series.Merge(series.DefaultDescriptors(), c.Metrics)
}
