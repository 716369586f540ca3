// internal/domain/analytics/window.go
package analytics

import (
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/shared"
)

// Range is a supported lookback window
type Range string

const (
	Range7Days  Range = "7d"
	Range30Days Range = "30d"
	Range90Days Range = "90d"
	Range1Year  Range = "1y"

	DefaultRange = Range30Days
)

// Window is the current period [Start, End] and the comparison period
// [ComparisonStart, Start) of identical length before it.
type Window struct {
	Range           Range
	Start           time.Time
	End             time.Time
	ComparisonStart time.Time
}

// ResolveWindow computes the window for key ending at now. An empty key
// means the 30 day default; anything unknown is a ValidationError.
func ResolveWindow(key string, now time.Time) (Window, error) {
	r := Range(key)
	if r == "" {
		r = DefaultRange
	}

	var start time.Time
	switch r {
	case Range7Days:
		start = now.AddDate(0, 0, -7)
	case Range30Days:
		start = now.AddDate(0, 0, -30)
	case Range90Days:
		start = now.AddDate(0, 0, -90)
	case Range1Year:
		start = now.AddDate(-1, 0, 0)
	default:
		return Window{}, shared.NewValidationError("range", "Must be one of: 7d 30d 90d 1y")
	}

	return Window{
		Range:           r,
		Start:           start,
		End:             now,
		ComparisonStart: start.Add(-now.Sub(start)),
	}, nil
}

// Duration is the length of either period
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls in the current period
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// InComparison reports whether t falls in the comparison period
func (w Window) InComparison(t time.Time) bool {
	return !t.Before(w.ComparisonStart) && t.Before(w.Start)
}

// SeriesDays is the number of daily buckets: the window's day count, capped at 30
func (w Window) SeriesDays() int {
	const day = 24 * time.Hour
	days := int((w.Duration() + day - 1) / day)
	if days > 30 {
		days = 30
	}
	if days < 0 {
		days = 0
	}
	return days
}
