package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pulsestation/pulse/internal/config"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration pulse would run with, after layering the
config file, PULSE_* environment variables and defaults.

Examples:
  pulse config
  pulse config path
  pulse config set poll.interval 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				path = "defaults (no config file found)"
			}
			fmt.Fprintf(out, "# source: %s\n", path)
			_, err = out.Write(data)
			return err
		},
	}
	cmd.AddCommand(newConfigPathCmd(), newConfigSetCmd())
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Find(cfgFile)
			if err != nil {
				return err
			}
			if path == "" {
				return errors.New(errors.ErrConfig,
					"No config file found",
					"Run 'pulse init' to create one")
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one key in the config file",
		Long: `Update a single dotted key in the config file, keeping comments and
other keys. The result is validated and the file left unchanged when the
new value is invalid.

Examples:
  pulse config set source.url http://nas.local:8000/api/data
  pulse config set limits.temperature 85
  pulse config set exporter.addr :9464`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return configSet(cmd, args[0], args[1])
		},
	}
}

func configSet(cmd *cobra.Command, key, value string) error {
	path, err := config.Find(cfgFile)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'pulse init' to create one")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to read "+path, "")
	}
	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Could not set %s", key),
			"Use a dotted key such as poll.interval or limits.temperature")
	}

	cfg, err := config.Load(path, nil)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		if restoreErr := os.WriteFile(path, original, 0o644); restoreErr != nil {
			return errors.WrapWithCode(restoreErr, errors.ErrConfig,
				"Failed to restore "+path+" after an invalid update", "")
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key, value)
	return nil
}
