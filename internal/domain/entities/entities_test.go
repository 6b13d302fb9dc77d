package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "", want: PriorityMedium},
		{in: "low", want: PriorityLow},
		{in: " HIGH ", want: PriorityHigh},
		{in: "medium", want: PriorityMedium},
		{in: "critical", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPriority) {
				t.Errorf("ParsePriority(%q) error = %v, want ErrInvalidPriority", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePriority(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Fatalf("ranks out of order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestParseFilter(t *testing.T) {
	for _, f := range Filters {
		got, err := ParseFilter(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFilter(%q) = %q, %v", f, got, err)
		}
	}

	if got, err := ParseFilter(""); err != nil || got != FilterAll {
		t.Errorf("ParseFilter(\"\") = %q, %v, want all", got, err)
	}
	if _, err := ParseFilter("archived"); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("ParseFilter(archived) error = %v, want ErrInvalidFilter", err)
	}
}

func TestFilterKeep(t *testing.T) {
	open := &Task{}
	done := &Task{Completed: true}
	starred := &Task{Starred: true}

	tests := []struct {
		filter Filter
		task   *Task
		want   bool
	}{
		{FilterAll, open, true},
		{FilterAll, done, true},
		{FilterActive, open, true},
		{FilterActive, done, false},
		{FilterCompleted, done, true},
		{FilterCompleted, open, false},
		{FilterStarred, starred, true},
		{FilterStarred, open, false},
		{Filter("bogus"), done, true},
	}

	for _, tt := range tests {
		if got := tt.filter.Keep(tt.task); got != tt.want {
			t.Errorf("%s.Keep(%+v) = %v, want %v", tt.filter, *tt.task, got, tt.want)
		}
	}
}

func TestFilterLabel(t *testing.T) {
	want := map[Filter]string{
		FilterAll:       "All Tasks",
		FilterActive:    "Active",
		FilterCompleted: "Completed",
		FilterStarred:   "Starred",
	}
	for f, label := range want {
		if got := f.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", f, got, label)
		}
	}
}

func TestTaskMatches(t *testing.T) {
	task := &Task{Text: "Buy milk"}

	if !task.Matches("mil") {
		t.Error("expected \"mil\" to match \"Buy milk\"")
	}
	if !task.Matches("BUY") {
		t.Error("expected match to ignore case")
	}
	if !task.Matches("") {
		t.Error("expected empty query to match")
	}
	if task.Matches("dog") {
		t.Error("did not expect \"dog\" to match")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2024, time.May, 10, 15, 0, 0, 0, time.UTC)
	yesterday := NewDate(2024, time.May, 9)
	today := NewDate(2024, time.May, 10)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{}, false},
		{"due yesterday", Task{DueDate: &yesterday}, true},
		{"due today", Task{DueDate: &today}, false},
		{"completed", Task{DueDate: &yesterday, Completed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskClone(t *testing.T) {
	due := NewDate(2024, time.June, 1)
	orig := Task{ID: "a", DueDate: &due}

	clone := orig.Clone()
	*clone.DueDate = NewDate(2030, time.January, 1)

	if !orig.DueDate.Equal(NewDate(2024, time.June, 1)) {
		t.Errorf("clone shares due date with original: %s", orig.DueDate)
	}
}

func TestTaskUnmarshalJSON_EmptyDueDate(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	for _, raw := range []string{
		`{"id":"a","text":"x","dueDate":""}`,
		`{"id":"a","text":"x","dueDate":"  "}`,
		`{"id":"a","text":"x","dueDate":null}`,
	} {
		var task Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", raw, err)
		}
		if task.DueDate != nil {
			t.Errorf("Unmarshal(%s) due date = %v, want none", raw, task.DueDate)
		}
		if task.IsOverdue(now) {
			t.Errorf("Unmarshal(%s) task is overdue without a due date", raw)
		}
		if task.ID != "a" || task.Text != "x" {
			t.Errorf("Unmarshal(%s) = %+v", raw, task)
		}

		out, err := json.Marshal(task)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if strings.Contains(string(out), "dueDate") {
			t.Errorf("Marshal() = %s, want no dueDate", out)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.February, 29)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2024-02-29"` {
		t.Fatalf("Marshal() = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}

	var fromTimestamp Date
	if err := json.Unmarshal([]byte(`"2024-02-29T00:00:00.000Z"`), &fromTimestamp); err != nil {
		t.Fatalf("Unmarshal(timestamp) error = %v", err)
	}
	if fromTimestamp != d {
		t.Errorf("Unmarshal(timestamp) = %v, want %v", fromTimestamp, d)
	}

	if err := json.Unmarshal([]byte(`"not a date"`), &back); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Unmarshal(garbage) error = %v, want ErrInvalidDate", err)
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("  ")
	if err != nil || d != nil {
		t.Fatalf("ParseOptionalDate(blank) = %v, %v, want nil, nil", d, err)
	}

	d, err = ParseOptionalDate("2024-12-31")
	if err != nil {
		t.Fatalf("ParseOptionalDate() error = %v", err)
	}
	if d.String() != "2024-12-31" {
		t.Errorf("ParseOptionalDate() = %s", d)
	}

	if _, err := ParseOptionalDate("31/12/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ParseOptionalDate(bad) error = %v, want ErrInvalidDate", err)
	}
}
