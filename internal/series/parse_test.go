package series

import (
	"testing"
	"time"

	"github.com/pulsestation/pulse/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = []string{KeyCPU, KeyRAM}

func TestParse_Valid(t *testing.T) {
	body := []byte(`{
		"timestamps": ["2024-05-01T10:00:00Z", "2024-05-01T10:05:00Z"],
		"cpu_usage": [10, 20.5],
		"ram": [30, 40],
		"temperature_limit": 65
	}`)

	snap, err := Parse(body, testKeys, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, []string{"2024-05-01T10:00:00Z", "2024-05-01T10:05:00Z"}, snap.Labels())
	assert.Equal(t, []float64{10, 20.5}, snap.Series(KeyCPU))
	assert.Equal(t, []float64{30, 40}, snap.Series(KeyRAM))
	require.NotNil(t, snap.TemperatureLimit)
	assert.Equal(t, 65.0, *snap.TemperatureLimit)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC), snap.LatestTime().UTC())

	latest, ok := snap.Latest(KeyCPU)
	assert.True(t, ok)
	assert.Equal(t, 20.5, latest)
}

func TestParse_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		want  *float64
	}{
		{name: "absent", limit: "", want: nil},
		{name: "null", limit: `, "temperature_limit": null`, want: nil},
		{name: "zero treated as absent", limit: `, "temperature_limit": 0`, want: nil},
		{name: "set", limit: `, "temperature_limit": 80.5`, want: ptr(80.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"timestamps":["2024-05-01T10:00:00Z"],"cpu_usage":[1],"ram":[2]` + tt.limit + `}`)
			snap, err := Parse(body, testKeys, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.TemperatureLimit)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		code     string
		contains string
	}{
		{
			name: "not json",
			body: `<html>oops</html>`,
			code: errors.ErrTransport,
		},
		{
			name:     "application error",
			body:     `{"error": "x"}`,
			code:     errors.ErrApplication,
			contains: "x",
		},
		{
			name:     "application error wins over data",
			body:     `{"error": "database locked", "timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [1], "ram": [1]}`,
			code:     errors.ErrApplication,
			contains: "database locked",
		},
		{
			name:     "missing timestamps",
			body:     `{"cpu_usage": [1], "ram": [1]}`,
			code:     errors.ErrMalformed,
			contains: "timestamps",
		},
		{
			name: "empty timestamps",
			body: `{"timestamps": [], "cpu_usage": [], "ram": []}`,
			code: errors.ErrMalformed,
		},
		{
			name:     "missing metric",
			body:     `{"timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [1]}`,
			code:     errors.ErrMalformed,
			contains: "ram",
		},
		{
			name:     "length mismatch",
			body:     `{"timestamps": ["2024-05-01T10:00:00Z", "2024-05-01T10:01:00Z"], "cpu_usage": [1, 2], "ram": [1]}`,
			code:     errors.ErrMalformed,
			contains: "has 1 samples, expected 2",
		},
		{
			name:     "placeholder string sample",
			body:     `{"timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [1], "ram": ["Brak danych"]}`,
			code:     errors.ErrMalformed,
			contains: "ram",
		},
		{
			name:     "null sample",
			body:     `{"timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [null], "ram": [1]}`,
			code:     errors.ErrMalformed,
			contains: "null",
		},
		{
			name:     "bad timestamp",
			body:     `{"timestamps": ["yesterday"], "cpu_usage": [1], "ram": [1]}`,
			code:     errors.ErrMalformed,
			contains: "yesterday",
		},
		{
			name:     "non-numeric limit",
			body:     `{"timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [1], "ram": [1], "temperature_limit": "hot"}`,
			code:     errors.ErrMalformed,
			contains: "temperature_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), testKeys, time.UTC)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got code %s", errors.Code(err))
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParse_EmptyErrorFieldIgnored(t *testing.T) {
	for _, value := range []string{`""`, `null`, `false`} {
		body := []byte(`{"error": ` + value + `, "timestamps": ["2024-05-01T10:00:00Z"], "cpu_usage": [1], "ram": [1]}`)
		_, err := Parse(body, testKeys, time.UTC)
		assert.NoError(t, err, "error=%s", value)
	}
}

func TestParseTimestamp(t *testing.T) {
	warsaw := time.FixedZone("CEST", 2*60*60)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "utc",
			input: "2024-05-01T10:00:00Z",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "offset",
			input: "2024-05-01T12:00:00+02:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "zone-less uses location",
			input: "2024-05-01T12:00:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "zone-less with microseconds",
			input: "2024-05-01T12:00:00.250000",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 250000000, time.UTC),
		},
		{
			name:  "space separator",
			input: "2024-05-01 12:00:00",
			want:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input, warsaw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}

	_, err := ParseTimestamp("not a time", warsaw)
	assert.Error(t, err)
}

func TestSnapshot_SeriesIsCopy(t *testing.T) {
	snap := Snapshot{
		Timestamps: []string{"a"},
		Values:     map[string][]float64{KeyCPU: {1}},
	}

	got := snap.Series(KeyCPU)
	got[0] = 99

	assert.Equal(t, []float64{1}, snap.Values[KeyCPU])
	assert.Nil(t, snap.Series("unknown"))

	_, ok := snap.Latest("unknown")
	assert.False(t, ok)
}

func ptr(f float64) *float64 { return &f }
