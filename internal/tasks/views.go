package tasks

import (
	"time"

	"github.com/mkarpova/focusdo/internal/model"
)

// Read-side projections. All of these copy: nothing handed out aliases the
// owned collection, and none of them touches the network.

// All returns a snapshot of the full collection.
func (s *Syncer) All() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// InCategory returns a snapshot of tasks in the given category.
func (s *Syncer) InCategory(category string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, t := range s.tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Overdue returns a snapshot of incomplete tasks past their due date.
func (s *Syncer) Overdue(now time.Time) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for i := range s.tasks {
		if s.tasks[i].IsOverdue(now) {
			out = append(out, s.tasks[i])
		}
	}
	return out
}

// Counts returns (completed, total).
func (s *Syncer) Counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := 0
	for i := range s.tasks {
		if s.tasks[i].Completed {
			completed++
		}
	}
	return completed, len(s.tasks)
}

// CompletionPercent is completed/total*100, or 0 for an empty collection.
func (s *Syncer) CompletionPercent() float64 {
	completed, total := s.Counts()
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// Busy reports whether a mutation for the task is in flight; the UI
// disables the corresponding control while true.
func (s *Syncer) Busy(taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[taskID]
}

// CreateBusy reports whether a create is in flight.
func (s *Syncer) CreateBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBusy
}
