package monitor

import "time"

// ClockLayout formats the header clock; the zone abbreviation is the
// viewer's local one.
const ClockLayout = "15:04:05 MST"

// Clock is the header clock. It starts from the endpoint's Date header on
// the first successful cycle and then advances one second per tick,
// independent of polling.
type Clock struct {
	now    time.Time
	loc    *time.Location
	seeded bool
}

// NewClock returns an unseeded clock rendering in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc}
}

// Seed sets the clock once. A zero server time falls back to local.
// Later calls are ignored.
func (c Clock) Seed(server, local time.Time) Clock {
	if c.seeded {
		return c
	}
	if server.IsZero() {
		server = local
	}
	c.now = server
	c.seeded = true
	return c
}

// Tick advances a seeded clock by one second.
func (c Clock) Tick() Clock {
	if c.seeded {
		c.now = c.now.Add(time.Second)
	}
	return c
}

// Seeded reports whether the clock has a time.
func (c Clock) Seeded() bool { return c.seeded }

// Time returns the clock's current time in its location.
func (c Clock) Time() time.Time { return c.now.In(c.loc) }

// String renders the clock, or placeholders before it is seeded.
func (c Clock) String() string {
	if !c.seeded {
		return "--:--:--"
	}
	return c.Time().Format(ClockLayout)
}
