// Package period turns reporting keywords into concrete time windows.
package period

import (
	"fmt"
	"time"

	"github.com/junaidrashid-git/storefront-api/apperr"
)

const (
	Day   = "day"
	Week  = "week"
	Month = "month"
)

// Window is the half-open interval [Start, End).
type Window struct {
	Keyword string
	Start   time.Time
	End     time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Resolve computes the window for keyword ending at now. Calendar
// boundaries are taken in now's location.
func Resolve(keyword string, now time.Time) (Window, error) {
	y, m, d := now.Date()
	loc := now.Location()

	var start time.Time
	switch keyword {
	case Day:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		// Sunday is 0; weeks start on Monday.
		back := (int(now.Weekday()) + 6) % 7
		start = time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case Month:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return Window{}, fmt.Errorf("period %q: %w", keyword, apperr.ErrInvalidPeriod)
	}
	return Window{Keyword: keyword, Start: start, End: now}, nil
}
