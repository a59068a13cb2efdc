// Package series holds the per-poll metric snapshot returned by the metrics
// endpoint, the static descriptors of the tracked metrics, and the response
// validation that turns a raw JSON body into a Snapshot.
package series
