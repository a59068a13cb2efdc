package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/config"
	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/logger"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/source"
	"github.com/pulsestation/pulse/internal/stats"
	"github.com/pulsestation/pulse/internal/ui"
)

// OnceResult is the --json payload of `pulse once`.
type OnceResult struct {
	Source       string         `json:"source"`
	Samples      int            `json:"samples"`
	LatestSample string         `json:"latest_sample,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Metrics      []MetricResult `json:"metrics"`
	Display      display.Update `json:"display"`
}

// MetricResult summarizes one metric of a cycle.
type MetricResult struct {
	Key           string        `json:"key"`
	Label         string        `json:"label"`
	Unit          string        `json:"unit"`
	Latest        float64       `json:"latest"`
	Average       *float64      `json:"average,omitempty"`
	Limit         *float64      `json:"limit,omitempty"`
	Status        *stats.Status `json:"status,omitempty"`
	AverageStatus *stats.Status `json:"average_status,omitempty"`
}

func newOnceCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Poll the endpoint once and print the dashboard values",
		Long: `Fetch the metrics endpoint once and print the latest values, window
averages and alerts. Exits non-zero when the poll fails.

Examples:
  pulse once
  pulse once --json
  pulse once --url http://nas.local:8000/api/data --window 5m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return onceCommand(cmd, jsonOut, nil)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print a JSON envelope instead of a table")
	return cmd
}

// onceCommand runs one cycle. fetcher overrides the HTTP client in tests.
func onceCommand(cmd *cobra.Command, jsonOut bool, fetcher source.Fetcher) error {
	out := cmd.OutOrStdout()

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(out, err)
			return errors.NewExitError(1)
		}
		return err
	}

	log, closeLog, err := onceLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := buildApp(cfg, log, fetcher)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var spinner *ui.Spinner
	if !jsonOut && isTerminal(os.Stderr) {
		spinner = ui.NewSpinner(os.Stderr, "Polling "+cfg.Source.URL)
		spinner.Start()
	}

	pollErr := a.ctrl.Poll(ctx)
	cycle, ok := a.ctrl.Last()
	if !ok || !cycle.OK() {
		if pollErr == nil {
			pollErr = cycle.Err
		}
		if spinner != nil {
			spinner.Fail("")
		}
		if jsonOut {
			_ = WriteJSONFromError(out, pollErr)
			return errors.NewExitError(1)
		}
		return pollErr
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("%d samples", cycle.Snapshot.Len()))
	}
	if pollErr != nil {
		// Charts failed but the display was written.
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), errorSummary(pollErr))
	}

	result := buildOnceResult(cfg.Source.URL, a.ctrl.Descriptors(), cycle, a.board.Snapshot())
	if jsonOut {
		return WriteJSONSuccess(out, result)
	}
	fmt.Fprintln(out, ui.RenderMetricTable(metricRows(result)))
	if result.LatestSample != "" {
		fmt.Fprintln(out, ui.MutedStyle().Render("latest sample "+result.LatestSample))
	}
	return nil
}

// onceLogger logs only when asked to; cycle failures are reported on
// stdout or stderr already.
func onceLogger(cfg *config.Config) (logger.Logger, func(), error) {
	if cfg.Log.File == "" && !verbose {
		return logger.Noop(), func() {}, nil
	}
	log, err := setupLogger(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Close() }, nil
}

func buildOnceResult(src string, descs []series.Descriptor, c dashboard.Cycle, board display.Update) OnceResult {
	r := OnceResult{
		Source:     src,
		Samples:    c.Snapshot.Len(),
		DurationMs: c.Duration.Milliseconds(),
		Display:    board,
	}
	if t := c.Snapshot.LatestTime(); !t.IsZero() {
		r.LatestSample = t.Format(time.RFC3339)
	}
	s := c.Summary
	for _, d := range descs {
		latest, ok := s.Latest[d.Key]
		if !ok {
			continue
		}
		m := MetricResult{Key: d.Key, Label: d.Label, Unit: d.Unit, Latest: latest}
		if v, ok := s.Averages[d.Key]; ok {
			m.Average = &v
		}
		if v, ok := s.Limits[d.Key]; ok {
			m.Limit = &v
		}
		if v, ok := s.Status[d.Key]; ok {
			m.Status = &v
		}
		if v, ok := s.AverageStatus[d.Key]; ok {
			m.AverageStatus = &v
		}
		r.Metrics = append(r.Metrics, m)
	}
	return r
}

func metricRows(r OnceResult) []ui.MetricRow {
	rows := make([]ui.MetricRow, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		cf, af := display.FieldsFor(m.Key)
		row := ui.MetricRow{Label: m.Label, Current: r.Display[cf].Text}
		if v := r.Display[cf]; v.Status != nil {
			alert := v.Alert()
			row.CurrentAlert = &alert
		}
		if v, ok := r.Display[af]; ok {
			row.Average = v.Text
			if v.Status != nil {
				alert := v.Alert()
				row.AverageAlert = &alert
			}
		}
		if m.Limit != nil {
			row.Limit = display.Format(m.Unit, *m.Limit, true)
		}
		rows = append(rows, row)
	}
	return rows
}
