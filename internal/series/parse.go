package series

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
)

const (
	fieldTimestamps       = "timestamps"
	fieldError            = "error"
	fieldTemperatureLimit = "temperature_limit"
)

// timestampLayouts are tried in order. Layouts without a zone are read in
// the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// Parse validates a raw endpoint response and builds a Snapshot containing
// the given metric keys. Zone-less timestamps are read in loc (time.Local
// when nil).
//
// Errors carry one of three codes: ErrTransport when the body is not JSON,
// ErrApplication when the endpoint flagged an error, ErrMalformed when the
// shape is wrong.
func Parse(body []byte, keys []string, loc *time.Location) (Snapshot, error) {
	if loc == nil {
		loc = time.Local
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Snapshot{}, errors.WrapWithCode(err, errors.ErrTransport,
			"Metrics response is not valid JSON",
			"Check that source.url points at the metrics API endpoint")
	}

	if msg, ok := applicationError(fields[fieldError]); ok {
		return Snapshot{}, errors.New(errors.ErrApplication,
			fmt.Sprintf("Metrics endpoint reported an error: %s", msg),
			"")
	}

	labels, times, err := parseTimestamps(fields[fieldTimestamps], loc)
	if err != nil {
		return Snapshot{}, err
	}

	values := make(map[string][]float64, len(keys))
	for _, key := range keys {
		v, err := parseValues(key, fields[key], len(labels))
		if err != nil {
			return Snapshot{}, err
		}
		values[key] = v
	}

	limit, err := parseLimit(fields[fieldTemperatureLimit])
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Timestamps:       labels,
		Times:            times,
		Values:           values,
		TemperatureLimit: limit,
	}, nil
}

// applicationError reports whether the error field is set to anything
// other than null, false or an empty string.
func applicationError(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	text := strings.TrimSpace(string(raw))
	switch text {
	case "null", "false", "0", `""`:
		return "", false
	}
	return text, true
}

func malformed(format string, args ...interface{}) error {
	return errors.New(errors.ErrMalformed,
		fmt.Sprintf(format, args...),
		"The metrics endpoint must return equal-length numeric arrays for every metric")
}

func parseTimestamps(raw json.RawMessage, loc *time.Location) ([]string, []time.Time, error) {
	if len(raw) == 0 {
		return nil, nil, malformed("Metrics response has no %q field", fieldTimestamps)
	}
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, nil, malformed("Field %q is not an array of strings", fieldTimestamps)
	}
	if len(labels) == 0 {
		return nil, nil, malformed("Metrics response contains no samples")
	}

	times := make([]time.Time, len(labels))
	for i, label := range labels {
		t, err := ParseTimestamp(label, loc)
		if err != nil {
			return nil, nil, malformed("Timestamp %d (%q) is not ISO-8601", i, label)
		}
		times[i] = t
	}
	return labels, times, nil
}

func parseValues(key string, raw json.RawMessage, want int) ([]float64, error) {
	if len(raw) == 0 {
		return nil, malformed("Metrics response has no %q field", key)
	}
	var ptrs []*float64
	if err := json.Unmarshal(raw, &ptrs); err != nil {
		return nil, malformed("Field %q is not an array of numbers", key)
	}
	if len(ptrs) != want {
		return nil, malformed("Field %q has %d samples, expected %d", key, len(ptrs), want)
	}
	out := make([]float64, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			return nil, malformed("Field %q sample %d is null", key, i)
		}
		out[i] = *p
	}
	return out, nil
}

func parseLimit(raw json.RawMessage) (*float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var limit float64
	if err := json.Unmarshal(raw, &limit); err != nil {
		return nil, malformed("Field %q is not a number", fieldTemperatureLimit)
	}
	if limit == 0 {
		return nil, nil
	}
	return &limit, nil
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone
// offset are interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
