// Package repo provides postgres lookups for entity reconciliation
package repo

import (
	"context"
	"strings"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/reconcile/domain"
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

const legislatorCols = `id, name, first_name, last_name, slug, party`

func (r *queries) oneLegislator(ctx context.Context, sql string, args ...any) (domain.Legislator, bool, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return domain.Legislator{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.Legislator{}, false, rows.Err()
	}
	var l domain.Legislator
	if err := rows.Scan(&l.ID, &l.Name, &l.FirstName, &l.LastName, &l.Slug, &l.Party); err != nil {
		return domain.Legislator{}, false, err
	}
	return l, true, rows.Err()
}

// ByExactName matches the stored display name verbatim
func (r *queries) ByExactName(ctx context.Context, name string) (domain.Legislator, bool, error) {
	return r.oneLegislator(ctx, `
		SELECT `+legislatorCols+` FROM legislators WHERE name = $1 LIMIT 1
	`, name)
}

// ByFoldedName matches the display name case insensitively
func (r *queries) ByFoldedName(ctx context.Context, name string) (domain.Legislator, bool, error) {
	return r.oneLegislator(ctx, `
		SELECT `+legislatorCols+` FROM legislators WHERE lower(name) = lower($1) LIMIT 1
	`, name)
}

// BySlugParts matches the split name fields derived from a slug
func (r *queries) BySlugParts(ctx context.Context, first, last string) (domain.Legislator, bool, error) {
	return r.oneLegislator(ctx, `
		SELECT `+legislatorCols+` FROM legislators
		WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)
		LIMIT 1
	`, first, last)
}

// BySlugLike matches the display name against the slug with hyphens
// replaced by spaces
func (r *queries) BySlugLike(ctx context.Context, slug string) (domain.Legislator, bool, error) {
	pattern := "%" + strings.ReplaceAll(slug, "-", " ") + "%"
	return r.oneLegislator(ctx, `
		SELECT `+legislatorCols+` FROM legislators WHERE name ILIKE $1 LIMIT 1
	`, pattern)
}

// ByNameSubstring matches any display name containing the given name
func (r *queries) ByNameSubstring(ctx context.Context, name string) (domain.Legislator, bool, error) {
	return r.oneLegislator(ctx, `
		SELECT `+legislatorCols+` FROM legislators WHERE name ILIKE $1 LIMIT 1
	`, "%"+name+"%")
}

func (r *queries) oneBillID(ctx context.Context, sql string, args ...any) (int64, bool, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return 0, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, false, rows.Err()
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, false, err
	}
	return id, true, rows.Err()
}

// BillByLegisinfoID matches on the external numeric id
func (r *queries) BillByLegisinfoID(ctx context.Context, id int64) (int64, bool, error) {
	return r.oneBillID(ctx, `SELECT id FROM bills WHERE legisinfo_id = $1 LIMIT 1`, id)
}

// BillByNumberSession matches on the printed number within a session
func (r *queries) BillByNumberSession(ctx context.Context, number, session string) (int64, bool, error) {
	return r.oneBillID(ctx, `
		SELECT id FROM bills WHERE number = $1 AND session = $2 LIMIT 1
	`, number, session)
}

// BillByNumberLatest matches on the printed number alone, preferring the
// most recently introduced row
func (r *queries) BillByNumberLatest(ctx context.Context, number string) (int64, bool, error) {
	return r.oneBillID(ctx, `
		SELECT id FROM bills WHERE number = $1
		ORDER BY introduced DESC NULLS LAST, id DESC
		LIMIT 1
	`, number)
}

// UpdateParty refreshes the stored party affiliation
func (r *queries) UpdateParty(ctx context.Context, id int64, party string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE legislators SET party = $2, updated_at = now() WHERE id = $1
	`, id, party)
	return err
}
