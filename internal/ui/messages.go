package ui

// View represents the current active view
type View int

const (
	ViewLogin View = iota
	ViewTasks
	ViewPomodoro
	ViewProfile
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "Login"
	case ViewTasks:
		return "Tasks"
	case ViewPomodoro:
		return "Pomodoro"
	case ViewProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// LoggedOutMsg indicates the user logged out explicitly.
type LoggedOutMsg struct{}
