package series

import "time"

// Snapshot is one poll's worth of metric data. Every slice in Values is
// index-aligned with Timestamps and Times. A Snapshot is built fresh per
// poll and never mutated afterwards.
type Snapshot struct {
	// Timestamps are the raw sample labels as sent by the endpoint.
	Timestamps []string
	// Times are the parsed Timestamps.
	Times []time.Time
	// Values maps a metric key to its samples.
	Values map[string][]float64
	// TemperatureLimit is the endpoint-supplied limit, nil when absent or zero.
	TemperatureLimit *float64
}

// Len returns the number of samples in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Timestamps)
}

// Series returns a copy of the samples for key, or nil if the key is unknown.
func (s Snapshot) Series(key string) []float64 {
	v, ok := s.Values[key]
	if !ok {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Labels returns a copy of the raw timestamps.
func (s Snapshot) Labels() []string {
	out := make([]string, len(s.Timestamps))
	copy(out, s.Timestamps)
	return out
}

// Latest returns the most recent sample for key.
func (s Snapshot) Latest(key string) (float64, bool) {
	v := s.Values[key]
	if len(v) == 0 {
		return 0, false
	}
	return v[len(v)-1], true
}

// LatestTime returns the timestamp of the most recent sample.
func (s Snapshot) LatestTime() time.Time {
	if len(s.Times) == 0 {
		return time.Time{}
	}
	return s.Times[len(s.Times)-1]
}
