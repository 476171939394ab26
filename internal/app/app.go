package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mkarpova/focusdo/internal/api"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/mkarpova/focusdo/internal/notify"
	"github.com/mkarpova/focusdo/internal/session"
	"github.com/mkarpova/focusdo/internal/store"
	"github.com/mkarpova/focusdo/internal/tasks"
)

// App wires the session store, REST client and task synchronizer together.
// It is the only place that decides what happens across component
// boundaries: login triggers the initial sync, logout and invalidation
// clear task state.
type App struct {
	Store    *store.Store
	Session  *session.Store
	Client   *api.Client
	Tasks    *tasks.Syncer
	Notifier *notify.Notifier
	DataDir  string

	lockFile *flock.Flock
}

// Config holds application configuration
type Config struct {
	DataDir string
	DBPath  string
	BaseURL string
}

// DefaultConfig returns the default application configuration. The server
// URL can be overridden with FOCUSDO_API_URL.
func DefaultConfig() *Config {
	dataDir := store.DefaultDataDir()
	baseURL := os.Getenv("FOCUSDO_API_URL")
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	return &Config{
		DataDir: dataDir,
		DBPath:  filepath.Join(dataDir, "focusdo.db"),
		BaseURL: baseURL,
	}
}

// Options tweaks construction for callers that don't need the whole app.
type Options struct {
	// SkipLock opens without the single-instance lock. One-shot commands
	// (login, add) only touch the database briefly and may run alongside
	// the TUI.
	SkipLock bool
}

// New creates a new application instance
func New(cfg *Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{
		DataDir:  cfg.DataDir,
		Notifier: notify.NewNotifier(),
	}

	if !opts.SkipLock {
		if err := a.acquireLock(); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	a.Store = st

	a.Session = session.NewStore(st)
	a.Client = api.NewClient(cfg.BaseURL, a.Session)
	a.Tasks = tasks.NewSyncer(a.Client, a.Session)

	// Restore a persisted session, if any. Absence is the normal
	// logged-out start.
	if err := a.Session.Restore(); err != nil && err != session.ErrNoSession {
		a.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return a, nil
}

// Login authenticates against the server, persists the session and runs
// the initial sync.
func (a *App) Login(ctx context.Context, username, password string) error {
	res, err := a.Client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	id := model.Identity{UserID: res.UserID, Username: res.Username}
	if err := a.Session.Login(id, res.Token); err != nil {
		return err
	}
	return a.Tasks.ListAll(ctx)
}

// Register creates an account and, because the server hands back a token
// at registration, logs straight in.
func (a *App) Register(ctx context.Context, username, email, password string) error {
	res, err := a.Client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	id := model.Identity{UserID: res.UserID, Username: res.Username}
	if err := a.Session.Login(id, res.Token); err != nil {
		return err
	}
	return a.Tasks.ListAll(ctx)
}

// Logout ends the session and drops local task state.
func (a *App) Logout() error {
	err := a.Session.Logout()
	a.Tasks.Clear()
	return err
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "focusdo.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of focusdo is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close local store: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
