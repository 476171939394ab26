package model

import "time"

// Identity is the authenticated user as returned by the token endpoint.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Profile is the server-side account summary.
type Profile struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
	TaskCount      int       `json:"task_count"`
	CompletedTasks int       `json:"completed_tasks"`
	CompletionRate float64   `json:"completion_rate"`
}
