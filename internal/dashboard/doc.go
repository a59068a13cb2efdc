// Package dashboard runs the poll cycle: fetch a response, validate it into
// a snapshot, push every metric to its chart, compute trailing averages and
// threshold classifications, and write the formatted values to the display
// surface.
//
// A cycle either applies completely or not at all. Fetch, validation and
// summarizing happen before anything visible changes; a failure in any of
// them is logged and leaves every chart and display field as it was.
//
// Cycles never overlap. A Poll that starts while another is in flight
// returns ErrCycleInFlight immediately. Each cycle is numbered, and a cycle
// whose context was cancelled or that is older than the last applied one
// is discarded with ErrStale.
package dashboard
