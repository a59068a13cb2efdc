package stats

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	tests := []struct {
		name   string
		values []float64
		times  []time.Time
		window time.Duration
		want   float64
	}{
		{
			name:   "empty",
			window: DefaultWindow,
			want:   0,
		},
		{
			name:   "all in window",
			values: []float64{10, 20},
			times:  []time.Time{ago(5 * time.Minute), now},
			window: DefaultWindow,
			want:   15,
		},
		{
			name:   "old samples excluded",
			values: []float64{1000, 10, 20},
			times:  []time.Time{ago(11 * time.Minute), ago(5 * time.Minute), now},
			window: DefaultWindow,
			want:   15,
		},
		{
			name:   "boundary included",
			values: []float64{30, 50},
			times:  []time.Time{ago(10 * time.Minute), now},
			window: DefaultWindow,
			want:   40,
		},
		{
			name:   "nothing in window",
			values: []float64{5, 6},
			times:  []time.Time{ago(time.Hour), ago(30 * time.Minute)},
			window: DefaultWindow,
			want:   0,
		},
		{
			name:   "unsorted input",
			values: []float64{20, 99, 10},
			times:  []time.Time{now, ago(20 * time.Minute), ago(5 * time.Minute)},
			window: DefaultWindow,
			want:   15,
		},
		{
			name:   "custom window",
			values: []float64{10, 20, 30},
			times:  []time.Time{ago(2 * time.Minute), ago(30 * time.Second), now},
			window: time.Minute,
			want:   25,
		},
		{
			name:   "future samples count",
			values: []float64{10, 30},
			times:  []time.Time{now, now.Add(time.Minute)},
			window: DefaultWindow,
			want:   20,
		},
		{
			name:   "mismatched lengths use shorter",
			values: []float64{10, 20, 30},
			times:  []time.Time{now, now},
			window: DefaultWindow,
			want:   15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Average(tt.values, tt.times, tt.window, now)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// Samples outside the window never influence the result, and the result is
// the mean of exactly the in-window samples.
func TestAverage_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	window := DefaultWindow

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(20)
		values := make([]float64, n)
		times := make([]time.Time, n)

		var sum float64
		var inWindow int
		for i := 0; i < n; i++ {
			values[i] = rng.Float64()*200 - 50
			offset := time.Duration(rng.Int63n(int64(30 * time.Minute)))
			times[i] = now.Add(-offset)
			if !times[i].Before(now.Add(-window)) {
				sum += values[i]
				inWindow++
			}
		}

		want := 0.0
		if inWindow > 0 {
			want = sum / float64(inWindow)
		}
		got := Average(values, times, window, now)
		assert.InDelta(t, want, got, 1e-9, "iteration %d", iter)

		// Perturbing out-of-window values must not change the result.
		for i := range values {
			if times[i].Before(now.Add(-window)) {
				values[i] = math.MaxFloat32
			}
		}
		assert.InDelta(t, got, Average(values, times, window, now), 1e-9, "iteration %d", iter)
	}
}
