package service

import (
	"context"
	"testing"
	"time"

	"hansard/internal/modkit/repokit"
	perr "hansard/internal/platform/errors"
	"hansard/internal/services/session/domain"
)

type stubDB struct{ txCalls int }

func (s *stubDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (s *stubDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (s *stubDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (s *stubDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	s.txCalls++
	return fn(s)
}

// memRepo keeps session rows in a map; ops record their order so tx
// bundling is assertable
type memRepo struct {
	rows map[string]*domain.Session
	ops  []string
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]*domain.Session{}} }

func (m *memRepo) Current(context.Context) (domain.Session, bool, error) {
	for _, s := range m.rows {
		if s.IsCurrent {
			return *s, true, nil
		}
	}
	return domain.Session{}, false, nil
}

func (m *memRepo) ByName(_ context.Context, name string) (domain.Session, bool, error) {
	s, ok := m.rows[name]
	if !ok {
		return domain.Session{}, false, nil
	}
	return *s, true, nil
}

func (m *memRepo) Insert(_ context.Context, name string, start time.Time) error {
	m.ops = append(m.ops, "insert")
	if _, ok := m.rows[name]; ok {
		return nil
	}
	m.rows[name] = &domain.Session{ID: int64(len(m.rows) + 1), Name: name, StartDate: start}
	return nil
}

func (m *memRepo) ClearCurrent(context.Context) error {
	m.ops = append(m.ops, "clear")
	for _, s := range m.rows {
		s.IsCurrent = false
	}
	return nil
}

func (m *memRepo) MarkCurrent(_ context.Context, name string) (int64, error) {
	m.ops = append(m.ops, "mark")
	s, ok := m.rows[name]
	if !ok {
		return 0, nil
	}
	s.IsCurrent = true
	return 1, nil
}

func newSvc(repo *memRepo) (*Service, *stubDB) {
	db := &stubDB{}
	return New(db, repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return repo })), db
}

func TestSetCurrent_FlipsMarkerInOneTx(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc, db := newSvc(repo)
	ctx := context.Background()

	start := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureSession(ctx, "44-1", start); err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	if _, err := svc.EnsureSession(ctx, "45-1", start.AddDate(1, 0, 0)); err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}

	if err := svc.SetCurrent(ctx, "44-1"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	txBefore := db.txCalls
	repo.ops = nil
	if err := svc.SetCurrent(ctx, "45-1"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if db.txCalls != txBefore+1 {
		t.Fatalf("tx calls = %d, want one per flip", db.txCalls-txBefore)
	}
	if len(repo.ops) != 2 || repo.ops[0] != "clear" || repo.ops[1] != "mark" {
		t.Fatalf("ops = %v, want [clear mark]", repo.ops)
	}

	cur, ok, err := svc.Current(ctx)
	if err != nil || !ok || cur.Name != "45-1" {
		t.Fatalf("Current = %+v, %v, %v", cur, ok, err)
	}
	for name, s := range repo.rows {
		if s.IsCurrent && name != "45-1" {
			t.Fatalf("stale current marker on %s", name)
		}
	}
}

func TestSetCurrent_UnknownSessionIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(newMemRepo())
	err := svc.SetCurrent(context.Background(), "99-9")
	if !perr.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestEnsureSession_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(newMemRepo())
	ctx := context.Background()
	start := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)

	first, err := svc.EnsureSession(ctx, "45-1", start)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	again, err := svc.EnsureSession(ctx, "45-1", start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	if again.ID != first.ID || !again.StartDate.Equal(first.StartDate) {
		t.Fatalf("second sighting altered the row: %+v vs %+v", first, again)
	}
}

func TestCurrent_NoneMarked(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(newMemRepo())
	_, ok, err := svc.Current(context.Background())
	if err != nil || ok {
		t.Fatalf("Current = %v, %v; want none", ok, err)
	}
}
