// Package web serves an HTML view of a day on top of the daybook JSON API.
package web

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	internalstrings "github.com/amonks/daybook/internal/strings"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
)

// Options configures the web handler.
type Options struct {
	// BaseURL is the JSON API root. Empty means the host serving the request.
	BaseURL string
}

// Handler serves the daybook web client.
type Handler struct {
	baseURL   string
	client    *http.Client
	mux       *http.ServeMux
	templates *templateWrapper

	mu     sync.Mutex
	notice string
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	handler := &Handler{
		baseURL:   internalstrings.TrimTrailingSlash(opts.BaseURL),
		client:    &http.Client{},
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/web/today", handler.handleToday)
	mux.HandleFunc("/web/tasks/set", handler.handleTasksSet)
	mux.HandleFunc("/web/tasks/promote", handler.handleTasksPromote)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	Date       string
	Snapshot   summary.Snapshot
	Categories category.Index
	Open       []task.Instance
	Done       []task.Instance
	Notice     string
	Priorities []task.Priority
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	date := trimmedQueryValue(r, "date")
	data := pageData{Date: date, Priorities: task.ValidPriorities(), Notice: h.consumeNotice()}

	snap, categories, err := h.fetchDay(r.Context(), h.requestBaseURL(r), date)
	if err != nil {
		data.Notice = err.Error()
	} else {
		data.Snapshot = snap
		data.Date = snap.Day().String()
		data.Categories = category.NewIndex(categories)
		for _, inst := range snap.Tasks {
			if inst.IsCompleted {
				data.Done = append(data.Done, inst)
			} else {
				data.Open = append(data.Open, inst)
			}
		}
	}
	h.templates.Render(w, data)
}

func (h *Handler) handleTasksSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setNotice("invalid form input")
		http.Redirect(w, r, todayPath(""), http.StatusSeeOther)
		return
	}
	date := trimmedFormValue(r, "date")
	id := trimmedFormValue(r, "id")
	if id == "" {
		h.setNotice("task id is required")
		http.Redirect(w, r, todayPath(date), http.StatusSeeOther)
		return
	}

	var response setResponse
	request := setRequest{ID: id, Completed: trimmedFormValue(r, "completed") == "true"}
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/tasks/set", request, &response); err != nil {
		h.setNotice(err.Error())
	}
	http.Redirect(w, r, todayPath(date), http.StatusSeeOther)
}

func (h *Handler) handleTasksPromote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setNotice("invalid form input")
		http.Redirect(w, r, todayPath(""), http.StatusSeeOther)
		return
	}
	template := trimmedFormValue(r, "template")
	if template == "" {
		h.setNotice("template id is required")
		http.Redirect(w, r, todayPath(""), http.StatusSeeOther)
		return
	}

	var response taskResponse
	request := promoteRequest{Template: template, Priority: trimmedFormValue(r, "priority")}
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/tasks/promote", request, &response); err != nil {
		h.setNotice(err.Error())
	}
	http.Redirect(w, r, todayPath(""), http.StatusSeeOther)
}

func (h *Handler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) fetchDay(ctx context.Context, baseURL, date string) (summary.Snapshot, []category.Category, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}
	var snap snapshotResponse
	if err := getJSON(ctx, h.client, baseURL, "/snapshot", query, &snap); err != nil {
		return summary.Snapshot{}, nil, err
	}
	var categories categoriesResponse
	if err := getJSON(ctx, h.client, baseURL, "/categories", nil, &categories); err != nil {
		return summary.Snapshot{}, nil, err
	}
	return snap.Snapshot, categories.Categories, nil
}

func (h *Handler) consumeNotice() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	notice := h.notice
	h.notice = ""
	return notice
}

func (h *Handler) setNotice(notice string) {
	h.mu.Lock()
	h.notice = notice
	h.mu.Unlock()
}

func todayPath(date string) string {
	if date == "" {
		return "/web/today"
	}
	if _, err := day.Parse(date); err != nil {
		return "/web/today"
	}
	return "/web/today?date=" + url.QueryEscape(date)
}

func trimmedQueryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
