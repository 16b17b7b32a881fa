package decision

import (
	"fmt"
	"time"
)

// QuietHours is a daily time-of-day window, inclusive at both ends.
// A start later than the end wraps past midnight (e.g. 22:30–07:00).
type QuietHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

func (q QuietHours) start() time.Duration {
	return time.Duration(q.StartHour)*time.Hour + time.Duration(q.StartMinute)*time.Minute
}

func (q QuietHours) end() time.Duration {
	return time.Duration(q.EndHour)*time.Hour + time.Duration(q.EndMinute)*time.Minute
}

// Contains reports whether t's wall-clock time falls inside the window.
func (q QuietHours) Contains(t time.Time) bool {
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())

	start, end := q.start(), q.end()
	if start > end {
		return tod >= start || tod <= end
	}
	return tod >= start && tod <= end
}

func (q QuietHours) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", q.StartHour, q.StartMinute, q.EndHour, q.EndMinute)
}
