// Package task implements the template/instance duality.
//
// A Template is a reusable task definition. Promoting it for a day produces
// an Instance: a dated, prioritized, completable work item. One-time templates
// are retired from the template pool by the same operation that promotes
// them; that bookkeeping lives in the tracker, which owns the pool.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/internal/validation"
)

// Priority is the importance of an instance.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium" // default
	PriorityHigh   Priority = "high"
)

// ValidPriorities returns all valid priority values, lowest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Rank orders priorities for display; high sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses a priority name case-insensitively. The empty string
// yields PriorityMedium.
func ParsePriority(value string) (Priority, error) {
	if strings.TrimSpace(value) == "" {
		return PriorityMedium, nil
	}
	return validation.ParseEnum("priority", value, ValidPriorities())
}

// Template is a reusable task definition.
type Template struct {
	Info    info.Info `json:"info"`
	OneTime bool      `json:"one_time"`
}

// ID returns the template's identity.
func (t Template) ID() string { return t.Info.ID }

// NewTemplate validates the descriptive fields and returns a template.
func NewTemplate(name, description, categoryID string, oneTime bool, created day.Date) (Template, error) {
	meta, err := info.New(name, description, categoryID, created)
	if err != nil {
		return Template{}, err
	}
	return Template{Info: meta, OneTime: oneTime}, nil
}

// Instance is a template scheduled for a day.
//
// Info is an owned copy of the template's display fields so the instance
// stays renderable after a one-time template has been retired. Instances
// are equal when they come from the same template.
type Instance struct {
	ID          string     `json:"id"`
	TemplateID  string     `json:"template_id"`
	Info        info.Info  `json:"info"`
	Priority    Priority   `json:"priority"`
	BeginDate   day.Date   `json:"begin_date"`
	DueDate     day.Date   `json:"due_date,omitzero"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Same reports whether i and other were promoted from the same template.
func (i Instance) Same(other Instance) bool {
	return i.TemplateID != "" && i.TemplateID == other.TemplateID
}

// HasDueDate reports whether a due date is set.
func (i Instance) HasDueDate() bool {
	return !i.DueDate.IsZero()
}

// String renders a short human description.
func (i Instance) String() string {
	state := "open"
	if i.IsCompleted {
		state = "done"
	}
	return fmt.Sprintf("%s (%s, %s)", i.Info.Name, i.Priority, state)
}
