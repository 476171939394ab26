package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FocusSession is one locally recorded completed timer phase.
type FocusSession struct {
	ID        string
	Phase     string
	StartedAt time.Time
	EndedAt   time.Time
	Seconds   int
}

// RecordFocusSession appends a completed phase to the local history.
func (s *Store) RecordFocusSession(phase string, startedAt, endedAt time.Time) (string, error) {
	id := uuid.New().String()
	seconds := int(endedAt.Sub(startedAt).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	_, err := s.db.Exec(`
		INSERT INTO focus_sessions (id, phase, started_at, ended_at, seconds)
		VALUES (?, ?, ?, ?, ?)
	`, id, phase, startedAt, endedAt, seconds)
	if err != nil {
		return "", fmt.Errorf("recording focus session: %w", err)
	}
	return id, nil
}

// CompletedSince counts work phases completed at or after cutoff.
func (s *Store) CompletedSince(phase string, cutoff time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM focus_sessions
		WHERE phase = ? AND ended_at >= ?
	`, phase, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting focus sessions: %w", err)
	}
	return count, nil
}

// StartOfDay returns midnight of now's day, for "completed today" queries.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
