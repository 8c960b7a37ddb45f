package ui

import (
	"fmt"
	"time"

	"github.com/amonks/daybook/internal/day"
)

// FormatDue describes a due date relative to today: "today", "in 3d",
// "2d overdue". A zero due date renders as "-".
func FormatDue(due, today day.Date) string {
	if due.IsZero() {
		return "-"
	}
	days := DaysBetween(today, due)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b day.Date) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

// FormatCompletedAt renders a completion instant as a wall-clock time,
// or "-" when the instance is open.
func FormatCompletedAt(at *time.Time) string {
	if at == nil || at.IsZero() {
		return "-"
	}
	return at.Format("15:04")
}

// FormatScore renders a 1-10 score; 0 means unrecorded.
func FormatScore(score int) string {
	if score == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", score)
}

// FormatHours renders an optional number of hours.
func FormatHours(hours *float64) string {
	if hours == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fh", *hours)
}
