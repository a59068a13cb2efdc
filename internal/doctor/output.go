package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/pulsestation/pulse/internal/config"
)

// ChartsDirCheck verifies the PNG output directory is writable.
type ChartsDirCheck struct {
	Renderer string
	Dir      string
}

func (c *ChartsDirCheck) Name() string     { return "charts_dir" }
func (c *ChartsDirCheck) Category() string { return CategoryOutput }

func (c *ChartsDirCheck) Run(context.Context) CheckResult {
	if c.Renderer != config.RendererPNG {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Charts drawn by the %q renderer", c.Renderer),
		}
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot create charts directory %s: %v", c.Dir, err),
			Suggestion: "Set charts.dir to a writable directory",
		}
	}
	f, err := os.CreateTemp(c.Dir, ".pulse-doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Charts directory %s is not writable", c.Dir),
			Suggestion: "Check permissions or set charts.dir elsewhere",
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("PNG charts written to %s", c.Dir),
	}
}

// ExporterAddrCheck verifies the exporter address can be bound.
type ExporterAddrCheck struct {
	Addr string
}

func (c *ExporterAddrCheck) Name() string     { return "exporter_addr" }
func (c *ExporterAddrCheck) Category() string { return CategoryOutput }

func (c *ExporterAddrCheck) Run(context.Context) CheckResult {
	if c.Addr == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Exporter disabled",
		}
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot listen on %s: %v", c.Addr, err),
			Suggestion: "Pick a free port for exporter.addr",
		}
	}
	_ = ln.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Exporter can listen on %s", c.Addr),
	}
}

// LogFileCheck verifies the log file can be appended to.
type LogFileCheck struct {
	Path string
}

func (c *LogFileCheck) Name() string     { return "log_file" }
func (c *LogFileCheck) Category() string { return CategoryOutput }

func (c *LogFileCheck) Run(context.Context) CheckResult {
	path, msg := c.Path, "Logging to "+c.Path
	if path == "" {
		path = config.DefaultLogFile()
		msg = "Logging to stderr, or " + path + " while the dashboard runs"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot create log directory for %s", path),
			Suggestion: "Set log.file to a writable path",
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Log file %s is not writable", path),
			Suggestion: "Set log.file to a writable path",
		}
	}
	_ = f.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

// NewOutputChecks creates the checks for files and ports pulse writes to.
func NewOutputChecks(cfg *config.Config) []Check {
	return []Check{
		&ChartsDirCheck{Renderer: cfg.Charts.Renderer, Dir: cfg.Charts.Dir},
		&ExporterAddrCheck{Addr: cfg.Exporter.Addr},
		&LogFileCheck{Path: cfg.Log.File},
	}
}
