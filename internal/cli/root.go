package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/logger"
	"github.com/pulsestation/pulse/internal/ui"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pulse",
		Short: "Live dashboard for a system metrics endpoint",
		Long: `pulse polls a metrics endpoint, keeps one chart per metric and shows
the latest values, trailing averages and temperature alerts.

Run 'pulse init' to create a config file, then 'pulse watch'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyGlobalFlags()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pulse.yaml or ~/.config/pulse/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newWatchCmd(),
		newOnceCmd(),
		newInitCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)
	return cmd
}

func applyGlobalFlags() {
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}
}

// Execute runs the root command and exits with a non-zero code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(err))
	}
}

// handleError prints err and returns the process exit code.
func handleError(err error) int {
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	logger.Default().Error("%v", err)

	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			if s := rootCmd.SuggestionsFor(name); len(s) > 0 {
				msg += fmt.Sprintf("\n\nDid you mean %q?", s[0])
			}
		}
		fmt.Fprintf(os.Stderr, "%s\nRun 'pulse --help' for usage.\n", msg)
		return 2
	}

	var e *errors.Error
	if stderrors.As(err, &e) {
		fmt.Fprint(os.Stderr, e.Error())
		return 1
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", ui.SymbolFail, err)
	return 1
}

// isUnknownCommandError reports cobra's unknown command and flag errors.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "pulse"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
