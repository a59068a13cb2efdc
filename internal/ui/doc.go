// Package ui provides the styled terminal output used by pulse's one-shot
// commands: status symbols, a polling spinner and the metric table.
//
// Colors are ANSI codes for broad terminal compatibility. DisableColors
// switches every lipgloss renderer to plain text for --no-color and
// non-terminal output.
package ui
