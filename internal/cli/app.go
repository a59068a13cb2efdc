package cli

import (
	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/chart"
	"github.com/pulsestation/pulse/internal/config"
	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/exporter"
	"github.com/pulsestation/pulse/internal/logger"
	"github.com/pulsestation/pulse/internal/source"
	"github.com/pulsestation/pulse/internal/stats"
)

// addConfigFlags registers the flags that override config keys. Their
// names match config.FlagKeys; zero defaults leave the config untouched.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("url", "", "metrics endpoint URL")
	f.Duration("timeout", 0, "request timeout, e.g. 10s")
	f.Duration("interval", 0, "poll interval, e.g. 30s or 1m")
	f.Duration("window", 0, "averaging window, e.g. 10m")
	f.String("renderer", "", "chart renderer: terminal, png or none")
	f.String("charts-dir", "", "directory receiving png charts")
	f.String("exporter-addr", "", "serve Prometheus metrics and the live stream on this address, e.g. :9464")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("log-file", "", "write logs to this file")
}

// loadConfig resolves and validates the effective configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile, cmd.Flags())
	if err != nil {
		return nil, "", err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setupLogger installs the process logger. While the TUI owns the terminal
// logs go to a file.
func setupLogger(cfg *config.Config, tui bool) (*logger.ZapLogger, error) {
	path := cfg.Log.File
	if tui && path == "" {
		path = config.DefaultLogFile()
	}
	log, err := logger.NewZap(cfg.Log.Level, path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to open log file "+path,
			"Set log.file (or --log-file) to a writable path")
	}
	logger.SetDefault(log)
	return log, nil
}

// app bundles the dashboard pieces a command runs.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	board    *display.Board
	charts   *chart.TerminalRenderer
	ctrl     *dashboard.Controller
	exporter *exporter.Exporter
}

// buildApp wires source, charts, display and the optional exporter into a
// controller. Extra surfaces receive every display update alongside the
// board.
func buildApp(cfg *config.Config, log logger.Logger, fetcher source.Fetcher, extra ...display.Surface) (*app, error) {
	if log == nil {
		log = logger.Noop()
	}
	if fetcher == nil {
		fetcher = source.New(cfg.Source.URL, cfg.Source.Timeout)
	}
	a := &app{cfg: cfg, log: log, board: display.NewBoard()}

	renderer, err := a.renderer()
	if err != nil {
		return nil, err
	}
	bindings, err := chart.NewBindings(cfg.Descriptors(), renderer)
	if err != nil {
		return nil, err
	}

	surface := display.Surface(a.board)
	if len(extra) > 0 {
		surface = append(display.Multi{a.board}, extra...)
	}

	opts := []dashboard.Option{
		dashboard.WithInterval(cfg.Poll.Interval),
		dashboard.WithWindow(cfg.Window),
		dashboard.WithLimits(stats.Limits(cfg.Limits)),
		dashboard.WithLogger(named(log, "dashboard")),
	}
	if cfg.Exporter.Addr != "" {
		a.exporter = exporter.New(a.board, named(log, "exporter"))
		opts = append(opts, dashboard.WithObserver(a.exporter))
	}

	a.ctrl = dashboard.New(fetcher, bindings, surface, opts...)
	return a, nil
}

func (a *app) renderer() (chart.Renderer, error) {
	switch a.cfg.Charts.Renderer {
	case config.RendererPNG:
		r, err := chart.NewPNGRenderer(a.cfg.Charts.Dir)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot use chart directory "+a.cfg.Charts.Dir,
				"Set charts.dir (or --charts-dir) to a writable directory")
		}
		return r, nil
	case config.RendererNone:
		return chart.Nop{}, nil
	default:
		a.charts = chart.NewTerminalRenderer()
		return a.charts, nil
	}
}

func named(log logger.Logger, name string) logger.Logger {
	if n, ok := log.(interface{ Named(string) logger.Logger }); ok {
		return n.Named(name)
	}
	return log
}
