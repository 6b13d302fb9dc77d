package services

import (
	"math"
	"sort"

	"github.com/taskflow/core/internal/domain/entities"
)

// ProjectTasks derives the list a presentation layer shows: archived tasks
// dropped, filter and case-insensitive search applied, then sorted starred
// first, by priority, and newest first. It never modifies tasks.
func ProjectTasks(tasks []entities.Task, filter entities.Filter, query string) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if !t.IsLive() || !filter.Keep(t) || !t.Matches(query) {
			continue
		}
		out = append(out, t.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})

	return out
}

func less(a, b *entities.Task) bool {
	if a.Starred != b.Starred {
		return a.Starred
	}
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// ComputeStats aggregates counts over live tasks
func ComputeStats(tasks []entities.Task) entities.Stats {
	var stats entities.Stats
	for i := range tasks {
		t := &tasks[i]
		if !t.IsLive() {
			continue
		}
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		if t.Starred {
			stats.Starred++
		}
	}

	stats.Active = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats
}
