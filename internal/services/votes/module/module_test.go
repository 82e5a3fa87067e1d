package module

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"

	"hansard/internal/modkit"
	"hansard/internal/modkit/repokit"
	recdom "hansard/internal/services/reconcile/domain"
	sessiondom "hansard/internal/services/session/domain"
	"hansard/internal/services/votes/domain"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (db nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	return fn(db)
}

type nopClient struct{}

func (nopClient) FetchPage(context.Context, string, map[string]string, int, int) ([]json.RawMessage, bool, error) {
	return nil, false, nil
}
func (nopClient) FetchResource(context.Context, string) ([]byte, error) { return nil, nil }

type nopResolver struct{}

func (nopResolver) ResolveLegislator(context.Context, recdom.LegislatorRef) (recdom.Legislator, bool, error) {
	return recdom.Legislator{}, false, nil
}
func (nopResolver) ResolveBill(context.Context, *int64, string, string) (int64, bool, error) {
	return 0, false, nil
}

type nopSessions struct{}

func (nopSessions) Current(context.Context) (sessiondom.Session, bool, error) {
	return sessiondom.Session{}, false, nil
}

func TestNew_WiresPortsIntoService(t *testing.T) {
	t.Parallel()

	m := New(
		modkit.Deps{PG: nopDB{}},
		modkit.WithPorts(domain.Ports{
			Client:   nopClient{},
			Res:      nopResolver{},
			Sessions: nopSessions{},
		}),
	)
	if m.Name() != "votes" {
		t.Fatalf("name = %q, want votes", m.Name())
	}
	ports, ok := m.Ports().(Ports)
	if !ok || ports.Sync == nil {
		t.Fatalf("ports not exposed: %#v", m.Ports())
	}
	if m.Service() == nil {
		t.Fatal("service accessor should expose the concrete service")
	}
}

func TestNew_PanicsWithoutPorts(t *testing.T) {
	t.Parallel()

	mustPanic(t, "no ports", func() { New(modkit.Deps{PG: nopDB{}}) })
	mustPanic(t, "missing collaborators", func() {
		New(modkit.Deps{PG: nopDB{}}, modkit.WithPorts(domain.Ports{Client: nopClient{}}))
	})
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()
	fn()
}
