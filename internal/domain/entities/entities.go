package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrEmptyText       = errors.New("task text must not be empty")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidTask     = errors.New("invalid task")
)

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterStarred   Filter = "starred"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted, FilterStarred}

// Task represents a single to-do item
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	Priority  Priority  `json:"priority"`
	DueDate   *Date     `json:"dueDate,omitempty"`
	Starred   bool      `json:"starred"`
	Archived  bool      `json:"archived,omitempty"`
}

// Stats holds the aggregate counts over live (non-archived) tasks
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	Starred        int `json:"starred"`
	CompletionRate int `json:"completionRate"`
}

// UnmarshalJSON decodes a task, treating an empty or zero due date as none.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		p.DueDate = nil
	}
	*t = Task(p)
	return nil
}

// Business logic methods for Task

// IsLive reports whether the task shows up in views and stats.
func (t *Task) IsLive() bool {
	return !t.Archived
}

// IsOverdue reports whether an open task's due date lies before now's calendar day.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(DateOf(now))
}

// Matches reports whether the task text contains query, ignoring case.
func (t *Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), strings.ToLower(query))
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Utility methods
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities so that a higher rank sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ParsePriority converts user input into a Priority. Empty input yields the default.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPriority, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted, FilterStarred:
		return true
	default:
		return false
	}
}

// Keep reports whether a live task passes the filter. Unknown filters keep everything.
func (f Filter) Keep(t *Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterStarred:
		return t.Starred
	default:
		return true
	}
}

// Label is the human readable name shown by presentation layers.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	case FilterStarred:
		return "Starred"
	default:
		return "All Tasks"
	}
}

// ParseFilter converts user input into a Filter. Empty input selects FilterAll.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(s)
	if !f.IsValid() {
		return "", ErrInvalidFilter
	}
	return f, nil
}
