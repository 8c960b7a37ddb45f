package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/internal/paths"
	"github.com/amonks/daybook/internal/store"
	"github.com/amonks/daybook/tracker"
)

// Exit codes by error kind. Anything else exits 1.
const (
	exitValidation = 2
	exitNotFound   = 3
	exitConflict   = 4
)

// presentedError marks an error whose message already reached the user
// through a presenter.
type presentedError struct {
	err error
}

func (e presentedError) Error() string { return e.err.Error() }
func (e presentedError) Unwrap() error { return e.err }

func exitCode(err error) int {
	switch {
	case errs.IsValidation(err):
		return exitValidation
	case errs.IsNotFound(err):
		return exitNotFound
	case errs.IsDuplicate(err), errs.IsState(err):
		return exitConflict
	default:
		return 1
	}
}

// loadConfig reads daybook.toml for the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

// openTracker opens the configured store and wraps it in a tracker.
// Callers must Close the tracker.
func openTracker() (*tracker.Tracker, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	dir, err := cfg.StateDir()
	if err != nil {
		return nil, nil, err
	}
	backend, err := store.Open(cfg.Store.Backend, dir)
	if err != nil {
		return nil, nil, err
	}
	clock, err := day.ClockFromEnv()
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("%s: %w", day.TodayEnvVar, err)
	}

	opts := []tracker.Option{tracker.WithClock(clock)}
	if rootVerbose {
		opts = append(opts, tracker.WithLogger(tracker.NewConsoleLogger(os.Stderr)))
	}
	return tracker.New(backend, opts...), cfg, nil
}

// withTracker runs fn against a freshly opened tracker.
func withTracker(fn func(t *tracker.Tracker, cfg *config.Config) error) (err error) {
	t, cfg, err := openTracker()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := t.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(t, cfg)
}

// present renders a use-case result: success through render, failure as
// an "error:" line on stderr.
func present[T any](value T, err error, render func(T) error) error {
	var renderErr error
	presenter := tracker.Presenter[T]{
		Success: func(v T) {
			if render != nil {
				renderErr = render(v)
			}
		},
		Fail: func(message string) { fmt.Fprintf(os.Stderr, "error: %s\n", message) },
	}
	if err := tracker.Present[T](presenter, value, err); err != nil {
		return presentedError{err: err}
	}
	return renderErr
}

// joinPresented combines per-argument failures from multi-id commands.
func joinPresented(errList []error) error {
	if len(errList) == 0 {
		return nil
	}
	if len(errList) == 1 {
		return errList[0]
	}
	return presentedError{err: errors.Join(errList...)}
}
