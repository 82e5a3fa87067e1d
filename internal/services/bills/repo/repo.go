// Package repo provides postgres access for bill sync writes
package repo

import (
	"context"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/bills/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// UpsertBill inserts the bill or enriches the existing row in place.
// Lookup precedence matches resolution: the external numeric id first,
// then (number, session). Enrichment never blanks a populated column
func (r *queries) UpsertBill(ctx context.Context, b domain.Bill) (int64, bool, error) {
	id, ok, err := r.findBill(ctx, b)
	if err != nil {
		return 0, false, err
	}

	if ok {
		_, err := r.q.Exec(ctx, `
			UPDATE bills SET
				legisinfo_id = COALESCE(legisinfo_id, $2),
				name = CASE WHEN $3 <> '' THEN $3 ELSE name END,
				introduced = COALESCE(introduced, $4),
				sponsor_legislator_id = COALESCE($5, sponsor_legislator_id),
				sponsor_party = CASE WHEN $6 <> '' THEN $6 ELSE sponsor_party END,
				law = law OR $7,
				private_member = private_member OR $8,
				status = CASE WHEN $9 <> '' THEN $9 ELSE status END,
				updated_at = now()
			WHERE id = $1
		`, id, b.LegisinfoID, b.Name, b.Introduced, b.SponsorLegislatorID,
			b.SponsorParty, b.Law, b.PrivateMember, b.Status)
		return id, false, err
	}

	rows, err := r.q.Query(ctx, `
		INSERT INTO bills (
			legisinfo_id, number, session, name, introduced,
			sponsor_legislator_id, sponsor_party, law, private_member, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, b.LegisinfoID, b.Number, b.Session, b.Name, b.Introduced,
		b.SponsorLegislatorID, b.SponsorParty, b.Law, b.PrivateMember, b.Status)
	if err != nil {
		return 0, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, false, rows.Err()
	}
	if err := rows.Scan(&id); err != nil {
		return 0, false, err
	}
	return id, true, rows.Err()
}

func (r *queries) findBill(ctx context.Context, b domain.Bill) (int64, bool, error) {
	if b.LegisinfoID != nil {
		id, ok, err := r.oneID(ctx, `SELECT id FROM bills WHERE legisinfo_id = $1`, *b.LegisinfoID)
		if err != nil || ok {
			return id, ok, err
		}
	}
	return r.oneID(ctx, `SELECT id FROM bills WHERE number = $1 AND session = $2`, b.Number, b.Session)
}

func (r *queries) oneID(ctx context.Context, sql string, args ...any) (int64, bool, error) {
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

// UpsertSponsorship inserts the link once
func (r *queries) UpsertSponsorship(ctx context.Context, s domain.Sponsorship) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO sponsorships (legislator_id, bill_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (legislator_id, bill_id, role) DO NOTHING
	`, s.LegislatorID, s.BillID, s.Role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// PurgeSession removes a session's sponsorships then its bills
func (r *queries) PurgeSession(ctx context.Context, session string) (int64, error) {
	if _, err := r.q.Exec(ctx, `
		DELETE FROM sponsorships s
		USING bills b
		WHERE s.bill_id = b.id AND b.session = $1
	`, session); err != nil {
		return 0, err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM bills WHERE session = $1`, session)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// BillIDs lists a session's bill ids in insertion order
func (r *queries) BillIDs(ctx context.Context, session string) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM bills WHERE session = $1 ORDER BY id`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
