package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronFields(t *testing.T) {
	spec := parseCron("*/15 3 * * 1-5")
	require.False(t, spec.bad)

	assert.True(t, spec.matches(time.Date(2026, 8, 31, 3, 30, 0, 0, time.UTC)))  // Monday 03:30
	assert.False(t, spec.matches(time.Date(2026, 8, 31, 4, 30, 0, 0, time.UTC))) // wrong hour
	assert.False(t, spec.matches(time.Date(2026, 8, 31, 3, 31, 0, 0, time.UTC))) // minute not /15
	assert.False(t, spec.matches(time.Date(2026, 8, 30, 3, 30, 0, 0, time.UTC))) // Sunday
}

func TestParseCronRejectsGarbage(t *testing.T) {
	assert.True(t, parseCron("not a cron").bad)
	assert.True(t, parseCron("* * * *").bad)
	assert.True(t, parseCron("*/0 * * * *").bad)
	assert.True(t, parseCron("9-3 * * * *").bad)
}

func TestCronNextFindsFollowingMinute(t *testing.T) {
	spec := parseCron("30 2 * * *")
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	next := spec.next(now)
	assert.Equal(t, time.Date(2026, 8, 30, 2, 30, 0, 0, time.UTC), next)

	// From just before the match, next fires the same day.
	next = spec.next(time.Date(2026, 8, 29, 2, 29, 10, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 8, 29, 2, 30, 0, 0, time.UTC), next)
}

func TestFirstRunHonorsAt(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	e := &entry{interval: 24 * time.Hour, at: "15:00"}
	assert.Equal(t, time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), e.firstRun(now))

	// A time already past today rolls to tomorrow.
	e = &entry{interval: 24 * time.Hour, at: "09:00"}
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), e.firstRun(now))

	// Without At the task runs immediately.
	e = &entry{interval: time.Hour}
	assert.Equal(t, now, e.firstRun(now))
}
