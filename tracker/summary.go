package tracker

import (
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/summary"
)

// Summary returns the daily summary of d (today when zero). A day that has
// never been touched is built from its instances but not stored.
func (t *Tracker) Summary(d day.Date) (summary.DailySummary, error) {
	if d.IsZero() {
		d = t.clock.Today()
	}
	st, err := t.load()
	if err != nil {
		return summary.DailySummary{}, err
	}
	return summaryFor(st, d), nil
}

// Snapshot folds the summary, tasks, goals, events and wellness entries of
// d (today when zero) into one view.
func (t *Tracker) Snapshot(d day.Date) (summary.Snapshot, error) {
	if d.IsZero() {
		d = t.clock.Today()
	}
	st, err := t.load()
	if err != nil {
		return summary.Snapshot{}, err
	}
	return snapshotOf(st, d), nil
}

func snapshotOf(st *store.State, d day.Date) summary.Snapshot {
	return summary.Fold(summaryFor(st, d), summary.Sources{
		Instances: st.InstanceList(),
		Goals:     st.GoalList(),
		Events:    st.EventList(),
		Entries:   st.WellnessList(),
	})
}
