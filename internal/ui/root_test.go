package ui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkarpova/focusdo/internal/app"
	"github.com/mkarpova/focusdo/internal/model"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testApp(t *testing.T, baseURL string) *app.App {
	t.Helper()
	dir := t.TempDir()
	a, err := app.New(&app.Config{
		DataDir: dir,
		DBPath:  filepath.Join(dir, "test.db"),
		BaseURL: baseURL,
	}, app.Options{SkipLock: true})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// A 401 that resolves after the user has moved to another view must still
// reach the view that issued the request, so the whole UI drops back to
// the login form instead of stranding the user on a dead session.
func TestLateUnauthorizedResultReturnsToLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	a := testApp(t, srv.URL)
	if err := a.Session.Login(model.Identity{UserID: 1, Username: "ada"}, "stale-tok"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var m tea.Model = NewRootModel(a)
	if m.(RootModel).currentView != ViewTasks {
		t.Fatalf("start view = %v, want Tasks", m.(RootModel).currentView)
	}

	// Start a sync from the tasks view, then switch to the pomodoro view
	// while it is in flight.
	m, syncCmd := m.Update(keyPress('r'))
	if syncCmd == nil {
		t.Fatal("refresh did not start a sync")
	}
	m, _ = m.Update(keyPress('2'))
	if m.(RootModel).currentView != ViewPomodoro {
		t.Fatalf("view = %v, want Pomodoro", m.(RootModel).currentView)
	}

	// The sync resolves with a 401 now, against a view that is no longer
	// on screen.
	result := syncCmd()
	m, cmd := m.Update(result)
	for i := 0; cmd != nil && i < 4; i++ {
		if m.(RootModel).currentView == ViewLogin {
			break
		}
		msg := cmd()
		if msg == nil {
			break
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				if c == nil {
					continue
				}
				if inner := c(); inner != nil {
					m, _ = m.Update(inner)
				}
			}
			break
		}
		m, cmd = m.Update(msg)
	}

	if got := m.(RootModel).currentView; got != ViewLogin {
		t.Errorf("view after late 401 = %v, want Login", got)
	}
	if a.Session.Active() {
		t.Error("session still active after 401")
	}
}

// Session-gated keys keep working after the expiry transition: a fresh
// login view accepts input.
func TestViewSwitchKeysRequireSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := testApp(t, srv.URL)

	var m tea.Model = NewRootModel(a)
	if m.(RootModel).currentView != ViewLogin {
		t.Fatalf("start view = %v, want Login when logged out", m.(RootModel).currentView)
	}

	// Without a session the numeric view switches are inert.
	m, _ = m.Update(keyPress('2'))
	if m.(RootModel).currentView != ViewLogin {
		t.Errorf("view switch worked while logged out")
	}
}
