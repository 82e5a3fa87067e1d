// Package repo provides postgres access for vote ingestion writes
package repo

import (
	"context"
	"time"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/votes/domain"
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

// UpsertVote writes one ballot row. The conflict arm touches only the
// bill linkage; ballot, result and vote date keep their first written
// values. xmax = 0 distinguishes a fresh insert from a conflict update
func (r *queries) UpsertVote(ctx context.Context, v domain.VoteRecord) (bool, error) {
	rows, err := r.q.Query(ctx, `
		INSERT INTO votes (
			external_id, legislator_id, session, number, ballot, result,
			vote_date, description, bill_id, bill_number, sponsor_party,
			party_position
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (external_id, legislator_id) DO UPDATE SET
			bill_id = COALESCE(EXCLUDED.bill_id, votes.bill_id),
			bill_number = CASE WHEN EXCLUDED.bill_number <> '' THEN EXCLUDED.bill_number ELSE votes.bill_number END,
			sponsor_party = CASE WHEN EXCLUDED.sponsor_party <> '' THEN EXCLUDED.sponsor_party ELSE votes.sponsor_party END,
			party_position = EXCLUDED.party_position,
			updated_at = now()
		RETURNING (xmax = 0)
	`, v.ExternalID, v.LegislatorID, v.Session, v.Number, v.Ballot, v.Result,
		v.VoteDate, v.Description, v.BillID, v.BillNumber, v.SponsorParty,
		v.PartyPosition)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	var inserted bool
	if err := rows.Scan(&inserted); err != nil {
		return false, err
	}
	return inserted, rows.Err()
}

// LatestVoteDate returns the newest stored vote date in scope
func (r *queries) LatestVoteDate(ctx context.Context, legislatorID, billID *int64) (time.Time, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT max(vote_date) FROM votes
		WHERE ($1::bigint IS NULL OR legislator_id = $1)
		  AND ($2::bigint IS NULL OR bill_id = $2)
	`, legislatorID, billID)
	if err != nil {
		return time.Time{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return time.Time{}, false, rows.Err()
	}
	var latest *time.Time
	if err := rows.Scan(&latest); err != nil {
		return time.Time{}, false, err
	}
	if latest == nil {
		return time.Time{}, false, rows.Err()
	}
	return *latest, true, rows.Err()
}

// BillMeta reads back the linkage fields the transformer needs
func (r *queries) BillMeta(ctx context.Context, billID int64) (domain.BillMeta, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT number, session, introduced, COALESCE(sponsor_party, '')
		FROM bills WHERE id = $1
	`, billID)
	if err != nil {
		return domain.BillMeta{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.BillMeta{}, false, rows.Err()
	}
	var m domain.BillMeta
	if err := rows.Scan(&m.Number, &m.Session, &m.Introduced, &m.SponsorParty); err != nil {
		return domain.BillMeta{}, false, err
	}
	return m, true, rows.Err()
}

// PurgeLegislator removes one legislator's vote rows
func (r *queries) PurgeLegislator(ctx context.Context, legislatorID int64) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM votes WHERE legislator_id = $1`, legislatorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
