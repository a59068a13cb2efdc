// Package stats computes trailing-window averages and threshold
// classifications over metric samples.
package stats

import "time"

// DefaultWindow is the trailing window used for averages.
const DefaultWindow = 10 * time.Minute

// Average returns the mean of the values whose timestamp is at or after
// now-window. Values and timestamps are paired by index; extra entries on
// either side are ignored. It returns 0 when no sample falls inside the
// window, so callers must read 0 as "no recent data".
func Average(values []float64, timestamps []time.Time, window time.Duration, now time.Time) float64 {
	cutoff := now.Add(-window)

	n := len(values)
	if len(timestamps) < n {
		n = len(timestamps)
	}

	var (
		sum   float64
		count int
	)
	for i := 0; i < n; i++ {
		if timestamps[i].Before(cutoff) {
			continue
		}
		sum += values[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
