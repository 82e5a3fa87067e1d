// Package service provides the sync run ledger service
package service

import (
	"context"

	"github.com/google/uuid"

	"hansard/internal/modkit/repokit"
	"hansard/internal/platform/logger"
	"hansard/internal/services/runs/domain"
)

// Service implements domain.LedgerPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.Repo]
	log    logger.Logger
}

// New constructs the ledger service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Service {
	if db == nil {
		panic("runs.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("runs.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder, log: *logger.Named("runs")}
}

// StartRun opens the ledger row for a stage
func (s *Service) StartRun(ctx context.Context, runID uuid.UUID, stage string) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Start(ctx, runID, stage)
	})
}

// FinishRun closes the ledger row; the error column keeps the failure
// text so a dead run can be diagnosed from the table alone
func (s *Service) FinishRun(ctx context.Context, runID uuid.UUID, stage string, stats domain.RunStats, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Finish(ctx, runID, stage, stats, errText)
	})
	if err != nil {
		s.log.Error().Err(err).Str("stage", stage).Msg("ledger finish failed")
	}
	return err
}
