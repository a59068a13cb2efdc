// Package monitor implements the terminal dashboard for pulse.
//
// The dashboard shows one card per tracked metric: the latest value and its
// trailing-window average as written to the display board, colored by their
// threshold status, with a graph of the series the controller last pushed to
// the terminal chart renderer.
//
// # Architecture
//
// The package uses Bubble Tea (Model-Update-View):
//
//   - Model: display selection, layout, the last settled cycle and the clock
//   - Update: keystrokes, poll ticks, clock ticks and settled cycles
//   - View: renders the board and charts to a string
//
// The model never mutates charts or display fields itself. It asks the
// dashboard controller to poll and reads the results back from the
// controller's surfaces.
//
// # Message Flow
//
//  1. pollTickMsg fires every controller interval (and once at start)
//  2. pollCmd runs one controller cycle off the UI goroutine
//  3. cycleMsg carries the settled cycle back, updating status and clock
//  4. clockTickMsg advances the header clock once per second
//
// # Keyboard
//
//	q, Ctrl+C   Quit
//	r           Poll now
//	up/k down/j Select metric
//	Enter       Expand selected metric
//	Esc         Back to the overview
//	?           Toggle help
package monitor
