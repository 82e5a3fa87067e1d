// Package repo provides postgres access for parliamentary sessions
package repo

import (
	"context"
	"time"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/session/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

const sessionCols = `id, name, start_date, end_date, is_current`

func scanSession(rows repokit.Rows) (domain.Session, bool, error) {
	defer rows.Close()
	if !rows.Next() {
		return domain.Session{}, false, rows.Err()
	}
	var s domain.Session
	if err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsCurrent); err != nil {
		return domain.Session{}, false, err
	}
	return s, true, rows.Err()
}

// Current returns the session marked current, if any
func (r *queries) Current(ctx context.Context) (domain.Session, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+sessionCols+` FROM sessions WHERE is_current
	`)
	if err != nil {
		return domain.Session{}, false, err
	}
	return scanSession(rows)
}

// ByName returns the named session, if any
func (r *queries) ByName(ctx context.Context, name string) (domain.Session, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+sessionCols+` FROM sessions WHERE name = $1
	`, name)
	if err != nil {
		return domain.Session{}, false, err
	}
	return scanSession(rows)
}

// Insert creates the session if absent; a concurrent first sighting is fine
func (r *queries) Insert(ctx context.Context, name string, start time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sessions (name, start_date)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, name, start)
	return err
}

// ClearCurrent unmarks whatever session is current
func (r *queries) ClearCurrent(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `UPDATE sessions SET is_current = false WHERE is_current`)
	return err
}

// MarkCurrent marks the named session and reports affected rows so the
// caller can tell an unknown name apart from success
func (r *queries) MarkCurrent(ctx context.Context, name string) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE sessions SET is_current = true WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
