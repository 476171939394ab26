package tasks

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mkarpova/focusdo/internal/api"
	"github.com/mkarpova/focusdo/internal/model"
	"github.com/mkarpova/focusdo/internal/session"
)

// memKV is an in-memory session.KV for tests.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}
func (m *memKV) Set(key, value string) error { m.data[key] = value; return nil }
func (m *memKV) Delete(key string) error     { delete(m.data, key); return nil }

// fakeRemote scripts per-call behavior and records what was sent.
type fakeRemote struct {
	tasks []model.Task

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	nextID     int
	lastUpdate model.Task
	calls      int

	// onList runs inside ListTasks, before the response. Used to race a
	// second operation against an in-flight fetch.
	onList func()
}

func (f *fakeRemote) ListTasks(ctx context.Context) ([]model.Task, error) {
	f.calls++
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeRemote) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	f.calls++
	if f.createErr != nil {
		return model.Task{}, f.createErr
	}
	f.nextID++
	return model.Task{
		ID:       f.nextID,
		Title:    draft.Title,
		Category: draft.Category,
		Priority: draft.Priority,
		DueDate:  draft.DueDate,
	}, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	f.calls++
	f.lastUpdate = task
	if f.updateErr != nil {
		return model.Task{}, f.updateErr
	}
	return task, nil
}

func (f *fakeRemote) DeleteTask(ctx context.Context, id int) error {
	f.calls++
	return f.deleteErr
}

// kind unwraps the taxonomy kind, failing the test on foreign errors.
func kind(t *testing.T, err error) api.Kind {
	t.Helper()
	k, ok := api.KindOf(err)
	if !ok {
		t.Fatalf("not a taxonomy error: %v", err)
	}
	return k
}

func loggedInSyncer(t *testing.T, remote Remote) (*Syncer, *session.Store) {
	t.Helper()
	sess := session.NewStore(newMemKV())
	if err := sess.Login(model.Identity{UserID: 1, Username: "ada"}, "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return NewSyncer(remote, sess), sess
}

func TestUnauthenticatedNeverHitsNetwork(t *testing.T) {
	remote := &fakeRemote{}
	sess := session.NewStore(newMemKV())
	s := NewSyncer(remote, sess)
	ctx := context.Background()

	err := s.ListAll(ctx)
	if kind(t, err) != api.KindUnauthenticated {
		t.Errorf("ListAll error = %v, want unauthenticated", err)
	}
	if _, err := s.Create(ctx, model.Draft{Title: "x"}); kind(t, err) != api.KindUnauthenticated {
		t.Errorf("Create error = %v, want unauthenticated", err)
	}
	if remote.calls != 0 {
		t.Errorf("remote was called %d times while logged out", remote.calls)
	}
}

func TestListAllReplacesWholesale(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{
		{ID: 1, Title: "one"},
		{ID: 2, Title: "two", Completed: true},
	}}
	s, _ := loggedInSyncer(t, remote)

	if err := s.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got := len(s.All()); got != 2 {
		t.Fatalf("collection size = %d, want 2", got)
	}

	remote.tasks = []model.Task{{ID: 3, Title: "three"}}
	if err := s.ListAll(context.Background()); err != nil {
		t.Fatalf("second ListAll: %v", err)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != 3 {
		t.Errorf("collection not replaced wholesale: %+v", all)
	}
}

func TestCreateFailureLeavesCollectionUntouched(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 1, Title: "existing"}}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	remote.createErr = api.NewError(api.KindNetwork, "connection refused")
	_, err := s.Create(context.Background(), model.Draft{Title: "new"})
	if kind(t, err) != api.KindNetwork {
		t.Errorf("error = %v, want network", err)
	}
	if got := len(s.All()); got != 1 {
		t.Errorf("failed create changed the collection: %d tasks", got)
	}
}

func TestCreateRejectsBlankTitleLocally(t *testing.T) {
	remote := &fakeRemote{}
	s, _ := loggedInSyncer(t, remote)

	_, err := s.Create(context.Background(), model.Draft{Title: "   "})
	if kind(t, err) != api.KindValidation {
		t.Errorf("error = %v, want validation", err)
	}
	if remote.calls != 0 {
		t.Error("blank title reached the server")
	}
}

func TestCreateAppendsServerTask(t *testing.T) {
	remote := &fakeRemote{nextID: 41}
	s, _ := loggedInSyncer(t, remote)

	created, err := s.Create(context.Background(), model.Draft{Title: "write report", Category: "Work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("created ID = %d, want server-assigned 42", created.ID)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != 42 {
		t.Errorf("collection after create: %+v", all)
	}
}

func TestToggleServerFirst(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 7, Title: "t", Completed: false}}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	updated, err := s.ToggleComplete(context.Background(), 7)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !updated.Completed {
		t.Error("toggle did not flip the flag")
	}
	if !remote.lastUpdate.Completed {
		t.Error("request did not carry the flipped bit")
	}
	if all := s.All(); !all[0].Completed {
		t.Error("local state not updated after server accepted")
	}
}

func TestToggleFailureKeepsLocalFlag(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 7, Title: "t"}}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	remote.updateErr = api.NewError(api.KindNetwork, "timeout")
	if _, err := s.ToggleComplete(context.Background(), 7); err == nil {
		t.Fatal("expected error")
	}
	if all := s.All(); all[0].Completed {
		t.Error("failed toggle flipped the local flag")
	}
}

func TestToggleUnknownTaskIsNotFound(t *testing.T) {
	remote := &fakeRemote{}
	s, _ := loggedInSyncer(t, remote)

	_, err := s.ToggleComplete(context.Background(), 999)
	if kind(t, err) != api.KindNotFound {
		t.Errorf("error = %v, want not found", err)
	}
	if remote.calls != 0 {
		t.Error("unknown task id reached the server")
	}
}

func TestDeleteRemovesLocallyAfterServer(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 1}, {ID: 2}}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all := s.All()
	if len(all) != 1 || all[0].ID != 2 {
		t.Errorf("collection after delete: %+v", all)
	}
}

func TestDeleteFailureKeepsTask(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 1}}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	remote.deleteErr = api.NewError(api.KindNetwork, "unreachable")
	if err := s.Delete(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if got := len(s.All()); got != 1 {
		t.Errorf("failed delete removed the task: %d left", got)
	}
}

func TestUnauthorizedClearsSessionAndCollection(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{{ID: 1}}}
	s, sess := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	remote.listErr = api.NewError(api.KindUnauthorized, "session expired")
	err := s.ListAll(context.Background())
	if !api.IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	if sess.Active() {
		t.Error("session still active after 401")
	}
	if len(s.All()) != 0 {
		t.Error("collection not cleared after 401")
	}
}

// A fetch that lands after the session it was issued under ended must not
// surface its own error; the session change already told the user.
func TestResultAfterLogoutIsSuperseded(t *testing.T) {
	var s *Syncer
	var sess *session.Store
	remote := &fakeRemote{
		listErr: api.NewError(api.KindNetwork, "slow failure"),
	}
	remote.onList = func() { sess.Logout() }
	s, sess = loggedInSyncer(t, remote)

	err := s.ListAll(context.Background())
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("error = %v, want ErrSuperseded", err)
	}
}

// A fetch superseded by a newer one is discarded even on success.
func TestStaleListDiscarded(t *testing.T) {
	var s *Syncer
	remote := &fakeRemote{tasks: []model.Task{{ID: 1, Title: "old"}}}
	first := true
	remote.onList = func() {
		if first {
			first = false
			// A newer fetch starts while this one is in flight.
			s.mu.Lock()
			s.listGen++
			s.mu.Unlock()
		}
	}
	s, _ = loggedInSyncer(t, remote)

	err := s.ListAll(context.Background())
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("error = %v, want ErrSuperseded", err)
	}
	if len(s.All()) != 0 {
		t.Error("stale fetch result entered the collection")
	}
}

func TestListInFlightGuard(t *testing.T) {
	var s *Syncer
	var second error
	remote := &fakeRemote{}
	remote.onList = func() {
		if remote.calls == 1 {
			second = s.ListAll(context.Background())
		}
	}
	s, _ = loggedInSyncer(t, remote)

	if err := s.ListAll(context.Background()); err != nil {
		t.Fatalf("first ListAll: %v", err)
	}
	if !errors.Is(second, ErrInFlight) {
		t.Errorf("concurrent ListAll error = %v, want ErrInFlight", second)
	}
}

func TestCompletionPercent(t *testing.T) {
	remote := &fakeRemote{}
	s, _ := loggedInSyncer(t, remote)

	if got := s.CompletionPercent(); got != 0 {
		t.Errorf("empty collection percent = %v, want 0", got)
	}

	remote.tasks = []model.Task{
		{ID: 1, Completed: true},
		{ID: 2},
		{ID: 3},
	}
	s.ListAll(context.Background())

	got := s.CompletionPercent()
	if math.Abs(got-100.0/3.0) > 1e-9 {
		t.Errorf("percent = %v, want 33.33…", got)
	}

	completed, total := s.Counts()
	if completed != 1 || total != 3 {
		t.Errorf("counts = %d/%d, want 1/3", completed, total)
	}
}

func TestInCategoryFilters(t *testing.T) {
	remote := &fakeRemote{tasks: []model.Task{
		{ID: 1, Category: "Work"},
		{ID: 2, Category: "Reading"},
		{ID: 3, Category: "Work"},
	}}
	s, _ := loggedInSyncer(t, remote)
	s.ListAll(context.Background())

	work := s.InCategory("Work")
	if len(work) != 2 {
		t.Errorf("Work category has %d tasks, want 2", len(work))
	}
	if len(s.InCategory("Math")) != 0 {
		t.Error("empty category returned tasks")
	}
}
