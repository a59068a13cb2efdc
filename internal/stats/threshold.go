package stats

import (
	"fmt"
	"strings"
)

// DefaultLimit is the temperature limit used when neither the endpoint nor
// the configuration supplies one.
const DefaultLimit = 95.0

// Status is the classification of a value against a limit.
type Status int

const (
	StatusNormal Status = iota
	StatusAlert
)

// String returns the presentation class for the status.
func (s Status) String() string {
	if s == StatusAlert {
		return "alert"
	}
	return "normal"
}

// MarshalText lets a Status render as its name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "normal" or "alert".
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "normal":
		*s = StatusNormal
	case "alert":
		*s = StatusAlert
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Classify returns StatusAlert iff value is strictly greater than limit.
func Classify(value, limit float64) Status {
	if value > limit {
		return StatusAlert
	}
	return StatusNormal
}

// Limits holds the configured default limit per metric key.
type Limits map[string]float64

// DefaultLimits returns the limits applied when nothing is configured.
func DefaultLimits() Limits {
	return Limits{"temperature": DefaultLimit}
}

// Has reports whether key is a classified metric.
func (l Limits) Has(key string) bool {
	_, ok := l[strings.ToLower(key)]
	return ok
}

// Resolve returns the limit for key. A non-nil, non-zero override (the
// endpoint-supplied value) wins; otherwise the configured limit is used,
// falling back to DefaultLimit.
func (l Limits) Resolve(key string, override *float64) float64 {
	if override != nil && *override != 0 {
		return *override
	}
	if v, ok := l[strings.ToLower(key)]; ok {
		return v
	}
	return DefaultLimit
}
