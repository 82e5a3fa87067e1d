// Package repo provides postgres access for the sync run ledger
package repo

import (
	"context"

	"github.com/google/uuid"

	"hansard/internal/modkit/repokit"
	strs "hansard/internal/platform/strings"
	"hansard/internal/services/runs/domain"
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

// Start opens the ledger row for a stage (idempotent on rerun)
func (r *queries) Start(ctx context.Context, runID uuid.UUID, stage string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sync_runs (run_id, stage, started_at)
		VALUES ($1, $2, now())
		ON CONFLICT (run_id, stage) DO UPDATE
		SET started_at = now(), finished_at = null, error = null
	`, runID, stage)
	return err
}

// Finish closes the ledger row with final counts
func (r *queries) Finish(ctx context.Context, runID uuid.UUID, stage string, stats domain.RunStats, errText string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE sync_runs SET
			finished_at = now(),
			inserted = $3,
			updated = $4,
			skipped = $5,
			erred = $6,
			error = $7
		WHERE run_id = $1 AND stage = $2
	`, runID, stage, stats.Inserted, stats.Updated, stats.Skipped, stats.Erred, strs.SQLNull(errText))
	return err
}
