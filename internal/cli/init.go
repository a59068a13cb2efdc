package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/config"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Target file; defaults to ./pulse.yaml
	URL            string // Pre-specified endpoint URL
	Interval       time.Duration
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use defaults and flags
}

func newInitCmd() *cobra.Command {
	var opts InitOptions
	var global bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a pulse.yaml configuration",
		Long: `Create a configuration file with sensible defaults.

On a terminal you are asked for the endpoint URL, poll interval, chart
renderer and temperature limit. Use --non-interactive (or pipe stdin) to
write defaults plus any flags given.

Examples:
  pulse init
  pulse init --url http://nas.local:8000/api/data --non-interactive
  pulse init --global --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if global {
				opts.Path = config.GlobalPath()
			}
			if !isTerminal(os.Stdin) {
				opts.NonInteractive = true
			}
			return Init(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "metrics endpoint URL")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "poll interval, e.g. 30s")
	cmd.Flags().BoolVar(&opts.Overwrite, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "skip prompts")
	cmd.Flags().BoolVar(&global, "global", false, "write ~/.config/pulse/config.yaml instead of ./pulse.yaml")
	return cmd
}

// Init writes a new configuration file.
func Init(out io.Writer, opts InitOptions) error {
	path := opts.Path
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.URL != "" {
		cfg.Source.URL = opts.URL
	}
	if opts.Interval > 0 {
		cfg.Poll.Interval = opts.Interval
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(cfg, path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check that the directory is writable")
	}

	fmt.Fprintf(out, "%s Created %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), path)
	fmt.Fprintln(out, ui.MutedStyle().Render("Next: pulse once to test the endpoint, then pulse watch"))
	return nil
}

// promptConfig asks for the common settings and writes them into cfg.
func promptConfig(cfg *config.Config) error {
	endpoint := cfg.Source.URL
	interval := cfg.Poll.Interval.String()
	renderer := cfg.Charts.Renderer
	limit := strconv.FormatFloat(cfg.Limits[series.KeyTemperature], 'f', -1, 64)
	exporterAddr := cfg.Exporter.Addr

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics endpoint").
				Description("URL returning the timestamps and metric arrays").
				Placeholder(config.DefaultConfig().Source.URL).
				Value(&endpoint).
				Validate(validateURL),
			huh.NewInput().
				Title("Poll interval").
				Description("How often to fetch, e.g. 30s or 1m").
				Value(&interval).
				Validate(validateInterval),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Charts").
				Options(
					huh.NewOption("Terminal graphs", config.RendererTerminal),
					huh.NewOption("PNG files", config.RendererPNG),
					huh.NewOption("None", config.RendererNone),
				).
				Value(&renderer),
			huh.NewInput().
				Title("Temperature limit (°C)").
				Description("Values above this are shown as alerts unless the endpoint sends its own").
				Value(&limit).
				Validate(validateLimit),
			huh.NewInput().
				Title("Exporter address (optional)").
				Description("Serve Prometheus metrics and a live stream, e.g. :9464").
				Placeholder("leave empty to disable").
				Value(&exporterAddr),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	cfg.Source.URL = strings.TrimSpace(endpoint)
	cfg.Poll.Interval, _ = time.ParseDuration(strings.TrimSpace(interval))
	cfg.Charts.Renderer = renderer
	cfg.Limits[series.KeyTemperature], _ = strconv.ParseFloat(strings.TrimSpace(limit), 64)
	cfg.Exporter.Addr = strings.TrimSpace(exporterAddr)
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a duration like 30s or 1m")
	}
	if d < config.MinInterval {
		return fmt.Errorf("interval must be at least %s", config.MinInterval)
	}
	return nil
}

func validateLimit(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
