package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKeyUsesUTCCalendarDay(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2026, 3, 14, 23, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-15", DayKey(at))

	assert.Equal(t, "2026-03-14", DayKey(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 42, 7, 123, time.UTC)

	start := StartOfDayUTC(at)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), start)

	end := EndOfDayUTC(at)
	assert.Equal(t, "2026-03-14", DayKey(end))
	assert.Equal(t, "2026-03-15", DayKey(end.Add(time.Nanosecond)))
}

func TestPointerHelpers(t *testing.T) {
	v := ToPtr("abc")
	assert.Equal(t, "abc", *v)
	assert.Equal(t, "abc", Deref(v))
	assert.Equal(t, "", Deref[string](nil))

	assert.False(t, IsTrue(nil))
	assert.False(t, IsTrue(ToPtr(false)))
	assert.True(t, IsTrue(ToPtr(true)))
}
