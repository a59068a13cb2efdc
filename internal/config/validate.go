package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/logger"
)

// MinInterval is the shortest accepted polling interval.
const MinInterval = time.Second

// ValidRenderers lists the accepted charts.renderer values.
var ValidRenderers = []string{RendererTerminal, RendererPNG, RendererNone}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pulse only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pulse or lower the version field")
	}

	checks := []struct {
		section string
		err     error
	}{
		{"source", validateSource(cfg.Source)},
		{"poll", validatePoll(cfg.Poll)},
		{"window", validateWindow(cfg.Window)},
		{"limits", validateLimits(cfg.Limits)},
		{"charts", validateCharts(cfg.Charts)},
		{"metrics", validateMetrics(cfg)},
		{"exporter", validateExporter(cfg.Exporter)},
		{"log", validateLog(cfg.Log)},
	}
	for _, c := range checks {
		if c.err != nil {
			return errors.WrapWithCode(c.err, errors.ErrConfig, c.err.Error(),
				fmt.Sprintf("Check the '%s' section in your pulse.yaml.", c.section))
		}
	}
	return nil
}

func validateSource(s SourceConfig) error {
	if s.URL == "" {
		return fmt.Errorf("source.url is required")
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("source.url %q is not a valid URL", s.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source.url %q must use http or https", s.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("source.url %q has no host", s.URL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

func validatePoll(p PollConfig) error {
	if p.Interval < MinInterval {
		return fmt.Errorf("poll.interval must be at least %s, got %s", MinInterval, p.Interval)
	}
	return nil
}

func validateWindow(w time.Duration) error {
	if w <= 0 {
		return fmt.Errorf("window must be positive, got %s", w)
	}
	return nil
}

func validateLimits(limits map[string]float64) error {
	for key, v := range limits {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("limits.%s must be a finite number", key)
		}
	}
	return nil
}

func validateCharts(c ChartsConfig) error {
	for _, r := range ValidRenderers {
		if c.Renderer == r {
			if r == RendererPNG && c.Dir == "" {
				return fmt.Errorf("charts.dir is required for the png renderer")
			}
			return nil
		}
	}
	return fmt.Errorf("charts.renderer %q is not one of %s", c.Renderer, strings.Join(ValidRenderers, ", "))
}

func validateMetrics(cfg *Config) error {
	keys := make(map[string]bool)
	for i, m := range cfg.Metrics {
		if m.Key == "" {
			return fmt.Errorf("metrics[%d] has no key", i)
		}
		if keys[m.Key] {
			return fmt.Errorf("metric %q is listed twice", m.Key)
		}
		keys[m.Key] = true
	}

	targets := make(map[string]string)
	for _, d := range cfg.Descriptors() {
		if d.Target == "" {
			return fmt.Errorf("metric %q has no chart target", d.Key)
		}
		if other, dup := targets[d.Target]; dup {
			return fmt.Errorf("metrics %q and %q share chart target %q", other, d.Key, d.Target)
		}
		targets[d.Target] = d.Key
	}
	return nil
}

func validateExporter(e ExporterConfig) error {
	if e.Addr == "" {
		return nil
	}
	if !strings.Contains(e.Addr, ":") {
		return fmt.Errorf("exporter.addr %q must be host:port or :port", e.Addr)
	}
	return nil
}

func validateLog(l LogConfig) error {
	if _, err := logger.ParseLevel(l.Level); err != nil {
		return err
	}
	return nil
}
