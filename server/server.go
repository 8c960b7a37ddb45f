// Package server exposes the tracker over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/errs"
	"github.com/amonks/daybook/tracker"
	"github.com/amonks/daybook/web"
)

// Options configures a Server.
type Options struct {
	Tracker *tracker.Tracker
	Logger  *log.Logger
}

// Server handles daybook HTTP requests.
type Server struct {
	tracker *tracker.Tracker
	logger  *log.Logger
}

const shutdownTimeout = 5 * time.Second

// NewServer creates a server backed by opts.Tracker.
func NewServer(opts Options) (*Server, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "daybook: ", log.LstdFlags)
	}
	return &Server{tracker: opts.Tracker, logger: logger}, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/tasks/today", s.handleTasksToday)
	mux.HandleFunc("/tasks/promote", s.handleTasksPromote)
	mux.HandleFunc("/tasks/complete", s.handleTasksComplete)
	mux.HandleFunc("/tasks/uncomplete", s.handleTasksUncomplete)
	mux.HandleFunc("/tasks/set", s.handleTasksSet)
	mux.HandleFunc("/goals", s.handleGoals)
	mux.HandleFunc("/categories", s.handleCategories)
	mux.HandleFunc("/categories/rename", s.handleCategoriesRename)
	mux.HandleFunc("/categories/delete", s.handleCategoriesDelete)
	webHandler := web.NewHandler(web.Options{})
	mux.Handle("/web/", webHandler)
	mux.Handle("/web", http.RedirectHandler("/web/today", http.StatusFound))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/web/today", http.StatusFound)
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr until it fails or the process is interrupted.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.Handler(),
		ErrorLog: s.logger,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logf("listening on %s", addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

// respond renders a use-case result through the tracker's output boundary.
func respond[T any](s *Server, w http.ResponseWriter, r *http.Request, value T, err error, wrap func(T) any) {
	presenter := tracker.Presenter[T]{
		Success: func(v T) { writeJSON(w, http.StatusOK, wrap(v)) },
		Fail: func(message string) {
			status := statusFor(err)
			s.logRequestError(r, status, err)
			writeJSON(w, status, errorResponse{Error: message})
		},
	}
	_ = tracker.Present[T](presenter, value, err)
}

func statusFor(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsDuplicate(err), errs.IsState(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func dateParam(r *http.Request) (day.Date, error) {
	d, err := day.Parse(r.URL.Query().Get("date"))
	if err != nil {
		return day.Date{}, errs.Validation("date", "%v", err)
	}
	return d, nil
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic handling request %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

func (s *Server) requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logRequestError(r, status, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
