package monitor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulsestation/pulse/internal/chart"
	"github.com/pulsestation/pulse/internal/dashboard"
	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/errors"
	"github.com/pulsestation/pulse/internal/series"
)

// Poller is the part of the dashboard controller the TUI drives.
type Poller interface {
	Poll(ctx context.Context) error
	Last() (dashboard.Cycle, bool)
	Polling() bool
	Interval() time.Duration
	Descriptors() []series.Descriptor
}

// Layout breakpoints
const (
	BreakpointCompact = 80
	BreakpointWide    = 120
)

const (
	clockInterval   = time.Second
	spinnerInterval = 150 * time.Millisecond
	headerHeight    = 3
	footerHeight    = 2
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx    context.Context
	poller Poller
	board  *display.Board
	charts *chart.TerminalRenderer
	source string
	descs  []series.Descriptor

	keys     KeyMap
	help     help.Model
	selected int
	viewMode ViewMode
	showHelp bool
	quitting bool
	width    int
	height   int

	clock      Clock
	now        func() time.Time
	polling    bool
	lastCycle  dashboard.Cycle
	hasCycle   bool
	lastUpdate time.Time
	failures   int
	limits     map[string]float64

	spinnerFrame int

	detailViewport viewport.Model
	viewportReady  bool
}

// pollTickMsg fires every controller interval.
type pollTickMsg time.Time

// clockTickMsg advances the header clock.
type clockTickMsg time.Time

// spinnerTickMsg advances the polling spinner.
type spinnerTickMsg time.Time

// cycleMsg carries the outcome of one poll back to the UI goroutine.
type cycleMsg struct {
	cycle   dashboard.Cycle
	err     error
	skipped bool
}

// NewModel creates the dashboard model. charts may be nil when the
// controller renders elsewhere; cards then show values only. source names
// the endpoint in the header.
func NewModel(ctx context.Context, p Poller, board *display.Board, charts *chart.TerminalRenderer, source string) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:    ctx,
		poller: p,
		board:  board,
		charts: charts,
		source: source,
		descs:  p.Descriptors(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		clock:  NewClock(time.Local),
		now:    time.Now,
	}
}

// Init polls immediately and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.pollCmd(),
		m.pollTickCmd(),
		m.clockTickCmd(),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.viewportReady {
			m.detailViewport = viewport.New(m.width, viewportHeight)
			m.detailViewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.detailViewport.Width = m.width
			m.detailViewport.Height = viewportHeight
		}
		if m.viewMode == ViewDetail {
			m.updateDetailViewportContent()
		}

	case pollTickMsg:
		m.polling = true
		return m, tea.Batch(m.pollCmd(), m.pollTickCmd())

	case clockTickMsg:
		m.clock = m.clock.Tick()
		return m, m.clockTickCmd()

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % len(PollingSpinnerFrames)
		return m, m.spinnerTickCmd()

	case cycleMsg:
		m.applyCycle(msg)
		if m.viewMode == ViewDetail {
			m.updateDetailViewportContent()
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

func (m *Model) applyCycle(msg cycleMsg) {
	m.polling = m.poller.Polling()
	if msg.skipped {
		return
	}
	m.lastCycle = msg.cycle
	m.hasCycle = true
	if msg.cycle.OK() {
		m.lastUpdate = m.now()
		m.failures = 0
		m.limits = msg.cycle.Summary.Limits
		m.clock = m.clock.Seed(msg.cycle.ServerTime, m.now())
		return
	}
	m.failures++
}

func (m Model) pollTickCmd() tea.Cmd {
	return tea.Tick(m.poller.Interval(), func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// pollCmd runs one controller cycle. Skipped and superseded polls produce
// a skipped message so the model does not mistake another cycle's result
// for its own.
func (m Model) pollCmd() tea.Cmd {
	ctx, p := m.ctx, m.poller
	return func() tea.Msg {
		err := p.Poll(ctx)
		if stderrors.Is(err, dashboard.ErrCycleInFlight) || stderrors.Is(err, dashboard.ErrStale) {
			return cycleMsg{skipped: true, err: err}
		}
		c, ok := p.Last()
		if !ok {
			return cycleMsg{skipped: true, err: err}
		}
		return cycleMsg{cycle: c, err: err}
	}
}

// Selected returns the descriptor under the cursor.
func (m Model) Selected() (series.Descriptor, bool) {
	if m.selected >= 0 && m.selected < len(m.descs) {
		return m.descs[m.selected], true
	}
	return series.Descriptor{}, false
}

// SecondsSinceUpdate returns how long ago the last cycle applied.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.lastUpdate).Seconds())
}

// LastError returns the failure of the last settled cycle, if any.
func (m Model) LastError() (message, suggestion string) {
	if !m.hasCycle || m.lastCycle.OK() {
		return "", ""
	}
	var e *errors.Error
	if stderrors.As(m.lastCycle.Err, &e) {
		return e.Summary(), e.Suggestion
	}
	return m.lastCycle.Err.Error(), ""
}

// Run starts the dashboard on the alternate screen until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
