package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkarpova/focusdo/internal/api"
	"github.com/mkarpova/focusdo/internal/tasks"
)

// settleErr converts an operation error into what the view shows. An
// unauthorized error yields a SessionExpiredMsg command instead of text,
// since the session invalidation is the authoritative signal. Superseded
// and in-flight results are dropped silently.
func settleErr(err error) (string, tea.Cmd) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, tasks.ErrSuperseded) || errors.Is(err, tasks.ErrInFlight) {
		return "", nil
	}
	if api.IsUnauthorized(err) {
		return "", func() tea.Msg { return SessionExpiredMsg{} }
	}
	return err.Error(), nil
}
