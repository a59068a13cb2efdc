package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/monitor"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/ui"
)

func newWatchCmd() *cobra.Command {
	var headless bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard for the metrics endpoint",
		Long: `Poll the metrics endpoint on an interval and show the dashboard.

On a terminal this opens the interactive dashboard. With --headless, or
when stdout is not a terminal, each cycle is printed as one line instead.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Poll now
  up/k        Select previous metric
  down/j      Select next metric
  Enter       Expand selected metric
  Esc         Back / close
  ?           Show help

Examples:
  pulse watch
  pulse watch --interval 10s --url http://nas.local:8000/api/data
  pulse watch --headless --exporter-addr :9464
  pulse watch --renderer png --charts-dir ./charts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchCommand(cmd, headless)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().BoolVar(&headless, "headless", false, "print one line per cycle instead of the interactive dashboard")
	return cmd
}

func watchCommand(cmd *cobra.Command, headless bool) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tui := !headless && isTerminal(os.Stdout)
	log, err := setupLogger(cfg, tui)
	if err != nil {
		return err
	}
	defer log.Close()

	if path != "" {
		log.Info("loaded config from %s", path)
	}

	a, err := buildApp(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exportErr := make(chan error, 1)
	if a.exporter != nil {
		go func() {
			err := a.exporter.Serve(ctx, cfg.Exporter.Addr)
			if err != nil {
				log.Error("%v", err)
				cancel()
			}
			exportErr <- err
		}()
	}

	if tui {
		m := monitor.NewModel(ctx, a.ctrl, a.board, a.charts, cfg.Source.URL)
		err = monitor.Run(ctx, m)
	} else {
		a.ctrl.AddObserver(cycleLinePrinter(cmd.OutOrStdout(), a.ctrl, time.Local))
		err = a.ctrl.Run(ctx)
	}

	cancel()
	if a.exporter != nil {
		if e := <-exportErr; err == nil {
			err = e
		}
	}
	return err
}

// cycleLinePrinter prints one line per settled cycle for headless runs.
func cycleLinePrinter(w io.Writer, ctrl *dashboard.Controller, loc *time.Location) dashboard.Observer {
	descs := ctrl.Descriptors()
	return dashboard.ObserverFunc(func(c dashboard.Cycle) {
		stamp := c.Started.In(loc).Format("15:04:05")
		if !c.OK() {
			fmt.Fprintf(w, "%s %s cycle %d failed [%s]: %s\n",
				stamp, ui.ErrorStyle().Render(ui.SymbolFail), c.Seq, dashboard.Kind(c.Err), errorSummary(c.Err))
			return
		}
		fmt.Fprintf(w, "%s %s %s\n", stamp, ui.SuccessStyle().Render(ui.SymbolSuccess), formatCycleLine(descs, c.Summary.Display))
	})
}

// formatCycleLine renders the display fields in descriptor order as
// key=value pairs, marking alerts.
func formatCycleLine(descs []series.Descriptor, u display.Update) string {
	var parts []string
	for _, d := range descs {
		cf, af := display.FieldsFor(d.Key)
		cur, ok := u[cf]
		if !ok {
			continue
		}
		part := d.Key + "=" + valueText(cur)
		if avg, ok := u[af]; ok {
			part += " (avg " + valueText(avg) + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func valueText(v display.Value) string {
	if v.Alert() {
		return ui.ErrorStyle().Bold(true).Render(v.Text + " " + ui.SymbolAlert)
	}
	return v.Text
}

func errorSummary(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Summary()
	}
	return err.Error()
}
