package pollers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecentWeekdaysSkipsWeekends(t *testing.T) {
	// 2026-02-09 is a Monday; the previous 7 calendar days include one
	// full weekend, leaving 5 weekdays.
	monday := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	days := recentWeekdays(monday, 7)

	for _, d := range days {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
	assert.Len(t, days, 5)
}

func TestRecentWeekdaysReturnsStrictlyDescendingDays(t *testing.T) {
	from := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	days := recentWeekdays(from, 3)

	for i := 1; i < len(days); i++ {
		assert.True(t, days[i].Before(days[i-1]))
	}
}
