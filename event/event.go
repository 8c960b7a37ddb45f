// Package event implements dated calendar entries.
package event

import (
	"strings"
	"unicode/utf8"

	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
)

// MaxLocationLength is the maximum number of characters in a location.
const MaxLocationLength = 50

// Event happens on Date, or from Date through EndDate when EndDate is set.
type Event struct {
	Info     info.Info `json:"info"`
	Date     day.Date  `json:"date"`
	EndDate  day.Date  `json:"end_date,omitzero"`
	Location string    `json:"location,omitempty"`
}

// Options holds the fields of a new event.
type Options struct {
	Name        string
	Description string
	CategoryID  string
	Date        day.Date
	EndDate     day.Date
	Location    string
}

// New validates opts and returns an event.
func New(opts Options, created day.Date) (Event, error) {
	location, err := validate(opts.Date, opts.EndDate, opts.Location)
	if err != nil {
		return Event{}, err
	}
	meta, err := info.New(opts.Name, opts.Description, opts.CategoryID, created)
	if err != nil {
		return Event{}, err
	}
	return Event{Info: meta, Date: opts.Date, EndDate: opts.EndDate, Location: location}, nil
}

func validate(date, end day.Date, location string) (string, error) {
	if date.IsZero() {
		return "", errs.Validation("date", "is required")
	}
	if !end.IsZero() && end.Before(date) {
		return "", errs.Validation("end date", "%s is before %s", end, date)
	}
	location = strings.TrimSpace(location)
	if n := utf8.RuneCountInString(location); n > MaxLocationLength {
		return "", errs.Validation("location", "must be at most %d characters, got %d", MaxLocationLength, n)
	}
	return location, nil
}

// ID returns the event's identity.
func (e Event) ID() string { return e.Info.ID }

// LastDate returns the final day of the event.
func (e Event) LastDate() day.Date {
	if e.EndDate.IsZero() {
		return e.Date
	}
	return e.EndDate
}

// OccursOn reports whether the event spans d.
func (e Event) OccursOn(d day.Date) bool {
	return d.Within(e.Date, e.LastDate())
}

// OccurringOn returns the events in events that span d, in input order.
func OccurringOn(events []Event, d day.Date) []Event {
	var out []Event
	for _, e := range events {
		if e.OccursOn(d) {
			out = append(out, e)
		}
	}
	return out
}
