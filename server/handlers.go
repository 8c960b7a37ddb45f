package server

import (
	"net/http"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/goal"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/tracker"
)

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	Summary summary.DailySummary `json:"summary"`
}

type snapshotResponse struct {
	Snapshot summary.Snapshot `json:"snapshot"`
}

type tasksResponse struct {
	Tasks []task.Instance `json:"tasks"`
}

type taskResponse struct {
	Task task.Instance `json:"task"`
}

type promoteRequest struct {
	Template string   `json:"template"`
	Priority string   `json:"priority,omitempty"`
	DueDate  day.Date `json:"due_date,omitzero"`
}

type taskRequest struct {
	ID string `json:"id"`
}

type setRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type setResponse struct {
	Task    task.Instance `json:"task"`
	Changed bool          `json:"changed"`
}

type goalsResponse struct {
	Goals []summary.GoalStatus `json:"goals"`
}

type categoriesResponse struct {
	Categories []category.Category `json:"categories"`
}

type categoryResponse struct {
	Category category.Category `json:"category"`
}

type renameCategoryRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

type deleteCategoryRequest struct {
	Category string `json:"category"`
}

type deleteCategoryResponse struct {
	Affected int `json:"affected"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	d, err := dateParam(r)
	if err != nil {
		respond(s, w, r, summary.DailySummary{}, err, nil)
		return
	}
	result, err := s.tracker.Summary(d)
	respond(s, w, r, result, err, func(v summary.DailySummary) any { return summaryResponse{Summary: v} })
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	d, err := dateParam(r)
	if err != nil {
		respond(s, w, r, summary.Snapshot{}, err, nil)
		return
	}
	result, err := s.tracker.Snapshot(d)
	respond(s, w, r, result, err, func(v summary.Snapshot) any { return snapshotResponse{Snapshot: v} })
}

func (s *Server) handleTasksToday(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	result, err := s.tracker.ListInstances(tracker.InstanceFilter{Day: s.tracker.Today()})
	respond(s, w, r, result, err, func(v []task.Instance) any {
		if v == nil {
			v = []task.Instance{}
		}
		return tasksResponse{Tasks: v}
	})
}

func (s *Server) handleTasksPromote(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload promoteRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	priority, err := task.ParsePriority(payload.Priority)
	if err != nil {
		respond(s, w, r, task.Instance{}, err, nil)
		return
	}
	result, err := s.tracker.AddToToday(payload.Template, task.PromoteOptions{
		Priority: priority,
		DueDate:  payload.DueDate,
	})
	respond(s, w, r, result, err, wrapTask)
}

func (s *Server) handleTasksComplete(w http.ResponseWriter, r *http.Request) {
	s.handleTaskTransition(w, r, s.tracker.Complete)
}

func (s *Server) handleTasksUncomplete(w http.ResponseWriter, r *http.Request) {
	s.handleTaskTransition(w, r, s.tracker.Uncomplete)
}

func (s *Server) handleTaskTransition(w http.ResponseWriter, r *http.Request, transition func(string) (task.Instance, error)) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload taskRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := transition(payload.ID)
	respond(s, w, r, result, err, wrapTask)
}

func (s *Server) handleTasksSet(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload setRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	inst, changed, err := s.tracker.SetCompleted(payload.ID, payload.Completed)
	respond(s, w, r, setResponse{Task: inst, Changed: changed}, err, func(v setResponse) any { return v })
}

func wrapTask(v task.Instance) any {
	return taskResponse{Task: v}
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	var period goal.Period
	if value := r.URL.Query().Get("period"); value != "" {
		parsed, err := goal.ParsePeriod(value)
		if err != nil {
			respond(s, w, r, []summary.GoalStatus(nil), err, nil)
			return
		}
		period = parsed
	}
	result, err := s.tracker.GoalStatuses(period)
	respond(s, w, r, result, err, func(v []summary.GoalStatus) any {
		if v == nil {
			v = []summary.GoalStatus{}
		}
		return goalsResponse{Goals: v}
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodGet) {
		return
	}
	result, err := s.tracker.ListCategories()
	respond(s, w, r, result, err, func(v []category.Category) any {
		if v == nil {
			v = []category.Category{}
		}
		return categoriesResponse{Categories: v}
	})
}

func (s *Server) handleCategoriesRename(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload renameCategoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := s.tracker.RenameCategory(payload.Category, payload.Name)
	respond(s, w, r, result, err, func(v category.Category) any { return categoryResponse{Category: v} })
}

func (s *Server) handleCategoriesDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethod(w, r, http.MethodPost) {
		return
	}
	var payload deleteCategoryRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := s.tracker.DeleteCategory(payload.Category)
	respond(s, w, r, result, err, func(v int) any { return deleteCategoryResponse{Affected: v} })
}
