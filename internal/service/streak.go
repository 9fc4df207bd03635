package service

import "time"

// NextStreak computes the streak state after a post on today, given the
// current count and the date of the last counted post. It returns the new
// count, the new last date and whether anything changed.
//
// Calendar-day difference rules:
//
//	no previous date  -> streak starts at 1
//	same day          -> already counted, no change
//	exactly one day   -> streak grows by one
//	more than one day -> streak resets to 1
//	negative (backdated post or clock skew) -> no change
//
// The negative case is undefined upstream; treating it as a no-op keeps the
// counter from ever moving backwards.
func NextStreak(count int, last *time.Time, today time.Time) (int, time.Time, bool) {
	todayDate := truncateToDay(today)
	if last == nil {
		return 1, todayDate, true
	}
	lastDate := truncateToDay(*last)
	days := int(todayDate.Sub(lastDate).Hours() / 24)
	switch {
	case days == 1:
		return count + 1, todayDate, true
	case days > 1:
		return 1, todayDate, true
	default:
		return count, lastDate, false
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
