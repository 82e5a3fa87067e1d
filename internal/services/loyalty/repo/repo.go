// Package repo provides postgres access for loyalty stats
package repo

import (
	"context"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/loyalty/domain"
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

// MembersWithVotes lists legislators that have at least one vote row
func (r *queries) MembersWithVotes(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT l.id, COALESCE(l.party, '')
		FROM legislators l
		JOIN votes v ON v.legislator_id = l.id
		ORDER BY l.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Party); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MemberParty reads one legislator's stored party
func (r *queries) MemberParty(ctx context.Context, legislatorID int64) (string, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(party, '') FROM legislators WHERE id = $1
	`, legislatorID)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var p string
	if err := rows.Scan(&p); err != nil {
		return "", false, err
	}
	return p, true, rows.Err()
}

// BallotsFor lists the loyalty working set for one legislator
func (r *queries) BallotsFor(ctx context.Context, legislatorID int64) ([]domain.BallotRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT ballot, sponsor_party
		FROM votes
		WHERE legislator_id = $1
		  AND bill_id IS NOT NULL
		  AND sponsor_party <> ''
	`, legislatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BallotRow
	for rows.Next() {
		var b domain.BallotRow
		if err := rows.Scan(&b.Ballot, &b.SponsorParty); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertStats overwrites the stats row wholesale
func (r *queries) UpsertStats(ctx context.Context, s domain.Stats) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO loyalty_stats (
			legislator_id, party, votes_with, votes_against, free_votes,
			abstained, total, pct_with, pct_against, pct_free, pct_abstained,
			computed_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (legislator_id) DO UPDATE SET
			party = EXCLUDED.party,
			votes_with = EXCLUDED.votes_with,
			votes_against = EXCLUDED.votes_against,
			free_votes = EXCLUDED.free_votes,
			abstained = EXCLUDED.abstained,
			total = EXCLUDED.total,
			pct_with = EXCLUDED.pct_with,
			pct_against = EXCLUDED.pct_against,
			pct_free = EXCLUDED.pct_free,
			pct_abstained = EXCLUDED.pct_abstained,
			computed_at = EXCLUDED.computed_at,
			expires_at = EXCLUDED.expires_at
	`, s.LegislatorID, s.Party, s.With, s.Against, s.Free, s.Abstained,
		s.Total, s.PctWith, s.PctAgainst, s.PctFree, s.PctAbstained,
		s.ComputedAt, s.ExpiresAt)
	return err
}
