// Package tracker implements the daybook use cases on top of a store.
//
// Each exported method is one use case: it validates its input, applies the
// change to the entity graph inside a single store Update, and only then
// reports to the Logger. Validation failures return before Update is
// entered, and errors raised inside Update abort the write, so a failed use
// case never leaves partial state behind.
//
// Mutations are serialized per aggregate. The registry lock guards the
// categories, the template pool and the goals with their ledgers. The lock
// of a day guards the task instances that begin on it, its summary and the
// events and wellness entries dated on it. An operation that needs both
// takes the registry lock first and then its day locks in ascending order:
// promotion and completion lock one day, while category, template and purge
// sweeps lock every day they touch. Instances, summaries and events are only
// created under the registry lock, so a sweep's set of days cannot grow
// once it holds that lock.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/ids"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/task"
)

// Tracker runs use cases against a store.Backend.
type Tracker struct {
	store  store.Backend
	clock  day.Clock
	logger Logger

	registry sync.Mutex

	daysMu sync.Mutex
	days   map[day.Date]*sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger that receives use-case events.
func WithLogger(logger Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock sets the clock that supplies today and now.
func WithClock(clock day.Clock) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// New returns a tracker over backend. Without options it uses the system
// clock and discards log events.
func New(backend store.Backend, opts ...Option) *Tracker {
	t := &Tracker{
		store:  backend,
		clock:  day.SystemClock{},
		logger: noopLogger{},
		days:   make(map[day.Date]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the clock's current day.
func (t *Tracker) Today() day.Date {
	return t.clock.Today()
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

func (t *Tracker) dayLock(d day.Date) *sync.Mutex {
	t.daysMu.Lock()
	defer t.daysMu.Unlock()
	mu, ok := t.days[d]
	if !ok {
		mu = &sync.Mutex{}
		t.days[d] = mu
	}
	return mu
}

func (t *Tracker) withRegistry(fn func() error) error {
	t.registry.Lock()
	defer t.registry.Unlock()
	return fn()
}

func (t *Tracker) withDay(d day.Date, fn func() error) error {
	mu := t.dayLock(d)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// withDays runs fn holding the lock of every day in days. Callers hold the
// registry lock.
func (t *Tracker) withDays(days []day.Date, fn func() error) error {
	days = slices.Clone(days)
	slices.SortFunc(days, day.Date.Compare)
	days = slices.CompactFunc(days, day.Date.Equal)
	for _, d := range days {
		mu := t.dayLock(d)
		mu.Lock()
		defer mu.Unlock()
	}
	return fn()
}

// withSweep runs fn under the registry lock and the locks of the days
// affected reports. fn must re-resolve its refs inside its own update.
func (t *Tracker) withSweep(affected func(st *store.State) ([]day.Date, error), fn func() error) error {
	return t.withRegistry(func() error {
		st, err := t.load()
		if err != nil {
			return err
		}
		days, err := affected(st)
		if err != nil {
			return err
		}
		return t.withDays(days, fn)
	})
}

// withEntityDay runs fn holding the lock of the day dateOf reports. fn
// must re-resolve its ref inside its own update.
func (t *Tracker) withEntityDay(dateOf func(st *store.State) (day.Date, error), fn func() error) error {
	st, err := t.load()
	if err != nil {
		return err
	}
	d, err := dateOf(st)
	if err != nil {
		return err
	}
	return t.withDay(d, fn)
}

func summaryDays(st *store.State) []day.Date {
	days := make([]day.Date, 0, len(st.Summaries))
	for d := range st.Summaries {
		days = append(days, d)
	}
	return days
}

func instanceDays(st *store.State, match func(task.Instance) bool) []day.Date {
	var days []day.Date
	for _, inst := range st.Instances {
		if match(inst) {
			days = append(days, inst.BeginDate)
		}
	}
	return days
}

func (t *Tracker) load() (*store.State, error) {
	st, err := t.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

// resolve turns a user-typed id prefix into a key of entities.
func resolve[T any](kind string, entities map[string]T, prefix string) (string, error) {
	keys := make([]string, 0, len(entities))
	for id := range entities {
		keys = append(keys, id)
	}
	sort.Strings(keys)

	id, err := ids.NewIndex(keys).Resolve(prefix)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, ids.ErrAmbiguousPrefix):
		return "", errs.Validation(kind+" id", "%q matches more than one %s", prefix, kind)
	default:
		return "", errs.NotFound(kind, prefix)
	}
}
