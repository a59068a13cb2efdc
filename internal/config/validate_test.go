package config

import (
	"math"
	"testing"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "future version", mutate: func(c *Config) { c.Version = 99 }, wantErr: "from the future"},
		{name: "empty url", mutate: func(c *Config) { c.Source.URL = "" }, wantErr: "source.url is required"},
		{name: "bad scheme", mutate: func(c *Config) { c.Source.URL = "ftp://host/data" }, wantErr: "http or https"},
		{name: "no host", mutate: func(c *Config) { c.Source.URL = "http:///api/data" }, wantErr: "no host"},
		{name: "zero timeout", mutate: func(c *Config) { c.Source.Timeout = 0 }, wantErr: "source.timeout"},
		{name: "interval too short", mutate: func(c *Config) { c.Poll.Interval = 500 * time.Millisecond }, wantErr: "poll.interval"},
		{name: "interval one second", mutate: func(c *Config) { c.Poll.Interval = time.Second }},
		{name: "zero window", mutate: func(c *Config) { c.Window = 0 }, wantErr: "window"},
		{name: "nan limit", mutate: func(c *Config) { c.Limits["temperature"] = math.NaN() }, wantErr: "finite"},
		{name: "unknown renderer", mutate: func(c *Config) { c.Charts.Renderer = "svg" }, wantErr: "charts.renderer"},
		{name: "png without dir", mutate: func(c *Config) { c.Charts.Renderer = RendererPNG; c.Charts.Dir = "" }, wantErr: "charts.dir"},
		{name: "renderer none", mutate: func(c *Config) { c.Charts.Renderer = RendererNone }},
		{
			name:    "metric without key",
			mutate:  func(c *Config) { c.Metrics = []series.Descriptor{{Label: "x"}} },
			wantErr: "has no key",
		},
		{
			name:    "metric listed twice",
			mutate:  func(c *Config) { c.Metrics = []series.Descriptor{{Key: "ram"}, {Key: "ram"}} },
			wantErr: "listed twice",
		},
		{
			name:    "new metric without target",
			mutate:  func(c *Config) { c.Metrics = []series.Descriptor{{Key: "gpu"}} },
			wantErr: "no chart target",
		},
		{
			name:    "shared target",
			mutate:  func(c *Config) { c.Metrics = []series.Descriptor{{Key: "ram", Target: "cpuChart"}} },
			wantErr: "share chart target",
		},
		{name: "exporter port", mutate: func(c *Config) { c.Exporter.Addr = ":9464" }},
		{name: "exporter bad addr", mutate: func(c *Config) { c.Exporter.Addr = "9464" }, wantErr: "exporter.addr"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "chatty" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PULSE_DEBUG", "")
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
