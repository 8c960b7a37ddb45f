// Package wellness records per-day mood, energy, stress and sleep entries.
//
// A score of 0 means the field was not recorded for that entry; averages
// only consider recorded values.
package wellness

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/ids"
)

const (
	// MaxScore is the upper bound of mood, energy and stress scores.
	MaxScore = 10

	// MaxSleepHours is the upper bound of a night's sleep.
	MaxSleepHours = 24

	// MaxNotesLength is the maximum number of characters in the notes.
	MaxNotesLength = 200
)

// Entry is one wellness log.
type Entry struct {
	ID         string    `json:"id"`
	Date       day.Date  `json:"date"`
	LoggedAt   time.Time `json:"logged_at"`
	Mood       int       `json:"mood,omitempty"`
	Energy     int       `json:"energy,omitempty"`
	Stress     int       `json:"stress,omitempty"`
	SleepHours *float64  `json:"sleep_hours,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// Options holds the fields of a new entry.
type Options struct {
	Mood       int
	Energy     int
	Stress     int
	SleepHours *float64
	Notes      string
}

// New validates opts and returns an entry for d logged at at.
func New(d day.Date, at time.Time, opts Options) (Entry, error) {
	if d.IsZero() {
		return Entry{}, errs.Validation("date", "is required")
	}
	for _, score := range []struct {
		field string
		value int
	}{{"mood", opts.Mood}, {"energy", opts.Energy}, {"stress", opts.Stress}} {
		if score.value < 0 || score.value > MaxScore {
			return Entry{}, errs.Validation(score.field, "must be between 1 and %d, got %d", MaxScore, score.value)
		}
	}
	if opts.SleepHours != nil && (*opts.SleepHours < 0 || *opts.SleepHours > MaxSleepHours) {
		return Entry{}, errs.Validation("sleep hours", "must be between 0 and %d, got %g", MaxSleepHours, *opts.SleepHours)
	}
	notes := strings.TrimSpace(opts.Notes)
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return Entry{}, errs.Validation("notes", "must be at most %d characters, got %d", MaxNotesLength, n)
	}
	if opts.Mood == 0 && opts.Energy == 0 && opts.Stress == 0 && opts.SleepHours == nil && notes == "" {
		return Entry{}, errs.Validation("entry", "nothing to record")
	}
	return Entry{
		ID:         ids.New(),
		Date:       d,
		LoggedAt:   at,
		Mood:       opts.Mood,
		Energy:     opts.Energy,
		Stress:     opts.Stress,
		SleepHours: opts.SleepHours,
		Notes:      notes,
	}, nil
}

// Averages summarizes the entries of one day. A zero average means no entry
// recorded that field.
type Averages struct {
	Entries    int     `json:"entries"`
	Mood       float64 `json:"mood,omitempty"`
	Energy     float64 `json:"energy,omitempty"`
	Stress     float64 `json:"stress,omitempty"`
	SleepHours float64 `json:"sleep_hours,omitempty"`
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Average folds the entries dated d.
func Average(entries []Entry, d day.Date) Averages {
	var mood, energy, stress, sleep mean
	out := Averages{}
	for _, e := range entries {
		if !e.Date.Equal(d) {
			continue
		}
		out.Entries++
		if e.Mood > 0 {
			mood.add(float64(e.Mood))
		}
		if e.Energy > 0 {
			energy.add(float64(e.Energy))
		}
		if e.Stress > 0 {
			stress.add(float64(e.Stress))
		}
		if e.SleepHours != nil {
			sleep.add(*e.SleepHours)
		}
	}
	out.Mood = mood.value()
	out.Energy = energy.value()
	out.Stress = stress.value()
	out.SleepHours = sleep.value()
	return out
}
