package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mkarpova/focusdo/internal/api"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/mkarpova/focusdo/internal/session"
)

// ErrInFlight means the same logical operation is already pending. The
// control surface that triggered it should ignore the second trigger.
var ErrInFlight = errors.New("operation already in flight")

// ErrSuperseded means the operation's result arrived after the session it
// was issued under ended, or after a newer fetch replaced it. Callers drop
// it silently; the session change is the authoritative signal.
var ErrSuperseded = errors.New("superseded")

// Remote is the slice of the REST client the synchronizer needs.
type Remote interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, draft model.Draft) (model.Task, error)
	UpdateTask(ctx context.Context, task model.Task) (model.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

// Syncer owns the in-memory task collection and mediates every mutation
// against the remote store. All task mutations are server-first: local
// state changes only after the remote call succeeds, so a failed request
// leaves the visible collection untouched.
type Syncer struct {
	mu      sync.Mutex
	remote  Remote
	session *session.Store

	tasks []model.Task

	listGen     int  // last issued fetch; stale results are discarded
	listPending bool // a fetch is in flight
	createBusy  bool
	busy        map[int]bool // per-task mutation in flight
}

// NewSyncer creates a synchronizer gated by the given session store.
func NewSyncer(remote Remote, sess *session.Store) *Syncer {
	return &Syncer{
		remote:  remote,
		session: sess,
		busy:    make(map[int]bool),
	}
}

// guard rejects operations without an active session, before any network
// call. Returns the epoch the operation was issued under.
func (s *Syncer) guard() (int, error) {
	if !s.session.Active() {
		return 0, api.NewError(api.KindUnauthenticated, "not logged in")
	}
	return s.session.Epoch(), nil
}

// settle classifies a finished remote call. A 401 force-invalidates the
// session and empties the collection; any other error from an already-dead
// epoch is suppressed.
func (s *Syncer) settle(epoch int, err error) error {
	if err != nil && api.IsUnauthorized(err) {
		s.session.ForceInvalidate()
		s.Clear()
		return err
	}
	if s.session.Epoch() != epoch {
		return ErrSuperseded
	}
	return err
}

// ListAll fetches the full remote collection and replaces local state
// wholesale; the server is authoritative. Last-issued-wins: if a newer
// fetch was started while this one was in flight, this result is
// discarded.
func (s *Syncer) ListAll(ctx context.Context) error {
	epoch, err := s.guard()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.listPending {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.listPending = true
	s.listGen++
	gen := s.listGen
	s.mu.Unlock()

	fetched, err := s.remote.ListTasks(ctx)

	s.mu.Lock()
	s.listPending = false
	stale := gen != s.listGen
	s.mu.Unlock()

	if err := s.settle(epoch, err); err != nil {
		return err
	}
	if stale {
		return ErrSuperseded
	}

	s.mu.Lock()
	s.tasks = fetched
	s.mu.Unlock()
	return nil
}

// Create sends the draft to the server and inserts the server-assigned
// task on success. The draft itself never enters the collection: no
// temporary local id needs reconciling later. Title must be non-empty.
func (s *Syncer) Create(ctx context.Context, draft model.Draft) (model.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return model.Task{}, api.NewError(api.KindValidation, "title must not be empty")
	}

	epoch, err := s.guard()
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	if s.createBusy {
		s.mu.Unlock()
		return model.Task{}, ErrInFlight
	}
	s.createBusy = true
	s.mu.Unlock()

	created, err := s.remote.CreateTask(ctx, draft)

	s.mu.Lock()
	s.createBusy = false
	s.mu.Unlock()

	if err := s.settle(epoch, err); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()
	return created, nil
}

// ToggleComplete flips the completed flag server-first: the update request
// carries the flipped bit, and the local flag changes only once the server
// accepts it.
func (s *Syncer) ToggleComplete(ctx context.Context, taskID int) (model.Task, error) {
	epoch, err := s.guard()
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	idx := s.indexLocked(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return model.Task{}, api.NewError(api.KindNotFound, "task not found")
	}
	if s.busy[taskID] {
		s.mu.Unlock()
		return model.Task{}, ErrInFlight
	}
	s.busy[taskID] = true
	want := s.tasks[idx]
	want.Completed = !want.Completed
	s.mu.Unlock()

	updated, err := s.remote.UpdateTask(ctx, want)

	s.mu.Lock()
	delete(s.busy, taskID)
	s.mu.Unlock()

	if err := s.settle(epoch, err); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	if idx := s.indexLocked(taskID); idx >= 0 {
		s.tasks[idx] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the task remotely, then locally.
func (s *Syncer) Delete(ctx context.Context, taskID int) error {
	epoch, err := s.guard()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.indexLocked(taskID) < 0 {
		s.mu.Unlock()
		return api.NewError(api.KindNotFound, "task not found")
	}
	if s.busy[taskID] {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.busy[taskID] = true
	s.mu.Unlock()

	err = s.remote.DeleteTask(ctx, taskID)

	s.mu.Lock()
	delete(s.busy, taskID)
	s.mu.Unlock()

	if err := s.settle(epoch, err); err != nil {
		return err
	}

	s.mu.Lock()
	if idx := s.indexLocked(taskID); idx >= 0 {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// Clear empties the local collection. Called on logout and on session
// invalidation.
func (s *Syncer) Clear() {
	s.mu.Lock()
	s.tasks = nil
	s.mu.Unlock()
}

func (s *Syncer) indexLocked(taskID int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
