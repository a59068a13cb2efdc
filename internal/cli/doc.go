// Package cli implements the pulse command-line interface.
//
// The package is organized around Cobra commands. Each command loads the
// layered configuration (file, PULSE_* environment, flags), builds the
// dashboard pieces it needs and hands off to the internal packages:
//
//	pulse watch            - Live dashboard (TUI, or --headless polling loop)
//	pulse once             - Poll once and print the board (table or --json)
//	pulse init             - Create pulse.yaml
//	pulse config           - Print the effective configuration
//	pulse config set k v   - Update one key in the config file
//	pulse version          - Print build information
//	pulse completion       - Shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) live on the root command.
// Flags that override config keys (--url, --interval, ...) are registered
// by addConfigFlags and bound to viper through config.FlagKeys, so a flag
// wins over the environment, which wins over the file.
package cli
