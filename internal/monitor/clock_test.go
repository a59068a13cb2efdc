package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	server := time.Date(2024, 5, 1, 10, 0, 58, 0, time.UTC)
	local := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)

	c := NewClock(time.UTC)
	assert.False(t, c.Seeded())
	assert.Equal(t, "--:--:--", c.String())
	assert.False(t, c.Tick().Seeded())

	c = c.Seed(server, local)
	assert.Equal(t, "10:00:58 UTC", c.String())

	c = c.Tick().Tick().Tick()
	assert.Equal(t, "10:01:01 UTC", c.String())

	c = c.Seed(local, local)
	assert.Equal(t, "10:01:01 UTC", c.String(), "seeding happens once")
}

func TestClock_FallbackAndZone(t *testing.T) {
	local := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	zone := time.FixedZone("CEST", 2*60*60)

	c := NewClock(zone).Seed(time.Time{}, local)
	assert.Equal(t, "12:00:00 CEST", c.String())
	assert.Equal(t, zone, c.Time().Location())
}

func TestNewClock_NilLocation(t *testing.T) {
	assert.Equal(t, time.Local, NewClock(nil).loc)
}
