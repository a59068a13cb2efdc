package dashboard

import (
	"time"

	"github.com/pulsestation/pulse/internal/display"
	"github.com/pulsestation/pulse/internal/series"
	"github.com/pulsestation/pulse/internal/stats"
)

// Summary is everything a successful cycle derives from one snapshot.
type Summary struct {
	Latest        map[string]float64
	Averages      map[string]float64
	Limits        map[string]float64
	Status        map[string]stats.Status
	AverageStatus map[string]stats.Status
	Display       display.Update
}

// Summarize computes latest values, trailing averages and classifications
// for every descriptor and renders them as display fields. Averages are
// computed only for descriptors marked Averaged; classification only for
// metrics that have a configured limit. It does not touch any state.
func Summarize(snap series.Snapshot, descs []series.Descriptor, limits stats.Limits, window time.Duration, now time.Time) Summary {
	s := Summary{
		Latest:        make(map[string]float64, len(descs)),
		Averages:      make(map[string]float64),
		Limits:        make(map[string]float64),
		Status:        make(map[string]stats.Status),
		AverageStatus: make(map[string]stats.Status),
		Display:       make(display.Update, len(descs)*2),
	}

	for _, d := range descs {
		latest, ok := snap.Latest(d.Key)
		if !ok {
			continue
		}
		s.Latest[d.Key] = latest
		currentField, averageField := display.FieldsFor(d.Key)

		var avg float64
		if d.Averaged {
			avg = stats.Average(snap.Values[d.Key], snap.Times, window, now)
			s.Averages[d.Key] = avg
		}

		if !limits.Has(d.Key) {
			s.Display[currentField] = display.Value{Text: display.Format(d.Unit, latest, false)}
			if d.Averaged {
				s.Display[averageField] = display.Value{Text: display.Format(d.Unit, avg, true)}
			}
			continue
		}

		var override *float64
		if d.Key == series.KeyTemperature {
			override = snap.TemperatureLimit
		}
		limit := limits.Resolve(d.Key, override)
		s.Limits[d.Key] = limit

		status := stats.Classify(latest, limit)
		s.Status[d.Key] = status
		s.Display[currentField] = display.Classified(display.Format(d.Unit, latest, false), status)

		if d.Averaged {
			avgStatus := stats.Classify(avg, limit)
			s.AverageStatus[d.Key] = avgStatus
			s.Display[averageField] = display.Classified(display.Format(d.Unit, avg, true), avgStatus)
		}
	}
	return s
}
