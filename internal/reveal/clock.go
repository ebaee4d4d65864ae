package reveal

import "time"

// Clock returns the current time
type Clock func() time.Time

// DayOfMonth returns the unlock day for t in loc. Only the day of the month
// counts: day 25 unlocks on the 25th of any month.
func DayOfMonth(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Day()
}

// Today returns the current unlock day using clock and loc
func (c Clock) Today(loc *time.Location) int {
	now := time.Now
	if c != nil {
		now = c
	}
	return DayOfMonth(now(), loc)
}
