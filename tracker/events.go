package tracker

import (
	"github.com/amonks/daybook/event"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/wellness"
)

// EventInput holds the fields of a new event. Category is a category name
// or id prefix.
type EventInput struct {
	Name        string
	Description string
	Category    string
	Date        day.Date
	EndDate     day.Date
	Location    string
}

// CreateEvent records a calendar event.
func (t *Tracker) CreateEvent(input EventInput) (event.Event, error) {
	var created event.Event
	err := t.withRegistry(func() error {
		return t.withDay(input.Date, func() error {
			return t.store.Update(func(st *store.State) error {
				categoryID, err := categoryRef(st, input.Category)
				if err != nil {
					return err
				}
				e, err := event.New(event.Options{
					Name:        input.Name,
					Description: input.Description,
					CategoryID:  categoryID,
					Date:        input.Date,
					EndDate:     input.EndDate,
					Location:    input.Location,
				}, t.clock.Today())
				if err != nil {
					return err
				}
				st.Events[e.ID()] = e
				created = e
				return nil
			})
		})
	})
	if err != nil {
		return event.Event{}, err
	}
	return created, nil
}

// ListEvents returns the events occurring on d, or every event when d is zero.
func (t *Tracker) ListEvents(d day.Date) ([]event.Event, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	events := st.EventList()
	if d.IsZero() {
		return events, nil
	}
	return event.OccurringOn(events, d), nil
}

// DeleteEvent removes an event.
func (t *Tracker) DeleteEvent(ref string) (event.Event, error) {
	var deleted event.Event
	err := t.withEntityDay(func(st *store.State) (day.Date, error) {
		id, err := resolve("event", st.Events, ref)
		if err != nil {
			return day.Date{}, err
		}
		return st.Events[id].Date, nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("event", st.Events, ref)
			if err != nil {
				return err
			}
			deleted = st.Events[id]
			delete(st.Events, id)
			return nil
		})
	})
	if err != nil {
		return event.Event{}, err
	}
	return deleted, nil
}

// LogWellness records a wellness entry for d (today when zero).
func (t *Tracker) LogWellness(d day.Date, opts wellness.Options) (wellness.Entry, error) {
	if d.IsZero() {
		d = t.clock.Today()
	}
	entry, err := wellness.New(d, t.clock.Now(), opts)
	if err != nil {
		return wellness.Entry{}, err
	}
	err = t.withDay(d, func() error {
		return t.store.Update(func(st *store.State) error {
			st.Wellness[entry.ID] = entry
			return nil
		})
	})
	if err != nil {
		return wellness.Entry{}, err
	}
	return entry, nil
}

// ListWellness returns the entries of d, or every entry when d is zero.
func (t *Tracker) ListWellness(d day.Date) ([]wellness.Entry, error) {
	st, err := t.load()
	if err != nil {
		return nil, err
	}
	var out []wellness.Entry
	for _, e := range st.WellnessList() {
		if d.IsZero() || e.Date.Equal(d) {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteWellness removes a wellness entry.
func (t *Tracker) DeleteWellness(ref string) (wellness.Entry, error) {
	var deleted wellness.Entry
	err := t.withEntityDay(func(st *store.State) (day.Date, error) {
		id, err := resolve("wellness entry", st.Wellness, ref)
		if err != nil {
			return day.Date{}, err
		}
		return st.Wellness[id].Date, nil
	}, func() error {
		return t.store.Update(func(st *store.State) error {
			id, err := resolve("wellness entry", st.Wellness, ref)
			if err != nil {
				return err
			}
			deleted = st.Wellness[id]
			delete(st.Wellness, id)
			return nil
		})
	})
	if err != nil {
		return wellness.Entry{}, err
	}
	return deleted, nil
}
