package shared

import "time"

// DateOf returns midnight of t's calendar day in loc.
// A nil loc means UTC.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateOf(a, loc).Equal(DateOf(b, loc))
}

// BeforeDay reports whether t's calendar day is strictly before day's in loc
func BeforeDay(t, day time.Time, loc *time.Location) bool {
	return DateOf(t, loc).Before(DateOf(day, loc))
}

// DaysBetween returns the number of whole calendar days from -> to in loc.
// The result is negative when to is on an earlier day.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	f := DateOf(from, loc)
	t := DateOf(to, loc)
	// Civil dates rebuilt in UTC so DST shifts never shave an hour off a day.
	fu := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(tu.Sub(fu).Hours() / 24)
}
