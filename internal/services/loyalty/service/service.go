// Package service implements the party loyalty calculator
package service

import (
	"context"
	"time"

	"hansard/internal/core/party"
	"hansard/internal/modkit/repokit"
	perr "hansard/internal/platform/errors"
	"hansard/internal/platform/logger"
	"hansard/internal/services/loyalty/domain"
)

// Config holds calculator tuning
type Config struct {
	TTL time.Duration // stats row expiry; <=0 -> 7 days
}

// Service implements domain.CalculatorPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.Repo]
	Cfg    Config

	log logger.Logger
	now func() time.Time
}

// New constructs the loyalty service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], cfg Config) *Service {
	if db == nil {
		panic("loyalty.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("loyalty.Service requires a non nil Repo binder")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg, log: *logger.Named("loyalty"), now: time.Now}
}

// Recompute rebuilds one legislator's stats row from scratch
func (s *Service) Recompute(ctx context.Context, legislatorID int64) (domain.Stats, error) {
	var stats domain.Stats
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)

		partyStr, ok, err := repo.MemberParty(ctx, legislatorID)
		if err != nil {
			return err
		}
		if !ok {
			return perr.Newf(perr.ErrorCodeNotFound, "legislator %d does not exist", legislatorID)
		}

		rows, err := repo.BallotsFor(ctx, legislatorID)
		if err != nil {
			return err
		}

		stats = compute(legislatorID, party.Normalize(partyStr), rows)
		stats.ComputedAt = s.now()
		stats.ExpiresAt = stats.ComputedAt.Add(s.Cfg.TTL)
		return repo.UpsertStats(ctx, stats)
	})
	return stats, err
}

// RecomputeAll rebuilds every legislator with votes on record. One bad
// legislator does not stop the sweep
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	var members []domain.Member
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		members, err = s.Binder.Bind(q).MembersWithVotes(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	written := 0
	for _, m := range members {
		if _, err := s.Recompute(ctx, m.ID); err != nil {
			s.log.Warn().Err(err).Int64("legislator_id", m.ID).Msg("loyalty recompute failed, sweep continues")
			continue
		}
		written++
	}
	s.log.Info().Int("written", written).Int("members", len(members)).Msg("loyalty sweep done")
	return written, nil
}
