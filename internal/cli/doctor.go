package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/config"
	"github.com/pulsestation/pulse/internal/doctor"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/source"
	"github.com/pulsestation/pulse/internal/ui"
)

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

func newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and endpoint problems",
		Long: `Run diagnostic checks on the configuration, the metrics endpoint and
the files and ports pulse writes to. Exits non-zero when a check fails.

Examples:
  pulse doctor
  pulse doctor --url http://nas.local:8000/api/data
  pulse doctor --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doctorCommand(cmd, jsonOut, nil)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	return cmd
}

// doctorCommand runs the checks. Endpoint and output checks only run
// when the configuration is valid. fetcher overrides the HTTP client in
// tests.
func doctorCommand(cmd *cobra.Command, jsonOut bool, fetcher source.Fetcher) error {
	checks := doctor.NewConfigChecks(cfgFile, cmd.Flags())

	cfg, _, err := config.LoadOrDefault(cfgFile, cmd.Flags())
	if err == nil {
		err = config.Validate(cfg)
	}
	if err == nil {
		if fetcher == nil {
			fetcher = source.New(cfg.Source.URL, cfg.Source.Timeout)
		}
		checks = append(checks, doctor.NewEndpointChecks(fetcher, cfg.Source.URL, cfg.Source.Timeout,
			series.Keys(cfg.Descriptors()), cfg.Window)...)
		checks = append(checks, doctor.NewOutputChecks(cfg)...)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	results := doctor.RunAllParallel(ctx, checks)

	out := cmd.OutOrStdout()
	if jsonOut {
		if err := WriteJSONSuccess(out, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(out, checks, results)
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)
	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range doctor.Categories {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	header := ui.HeaderStyle()

	fmt.Fprintln(w)
	fmt.Fprintln(w, header.Render("pulse diagnostic report"))
	fmt.Fprintln(w)

	grouped := doctor.GroupByCategory(checks)
	for _, cat := range doctor.Categories {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		fmt.Fprintln(w, header.Render(cat))
		for _, idx := range indices {
			renderCheckResult(w, results[idx])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	symbol := ui.SuccessStyle().Render(ui.SymbolSuccess)
	if doctor.HasIssues(results) {
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Fprintf(w, "%s %s\n\n", symbol, doctor.Summary(results))
}

func renderCheckResult(w io.Writer, result doctor.CheckResult) {
	var (
		symbol string
		style  lipgloss.Style
	)
	switch result.Status {
	case doctor.StatusPass:
		symbol, style = ui.SymbolComplete, ui.SuccessStyle()
	case doctor.StatusWarn:
		symbol, style = ui.SymbolAlert, ui.WarnStyle()
	default:
		symbol, style = ui.SymbolFail, ui.ErrorStyle()
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)
	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", ui.MutedStyle().Render(line))
		}
	}
}
