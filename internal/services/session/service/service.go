// Package service provides the session watermark service
package service

import (
	"context"
	"time"

	"hansard/internal/modkit/repokit"
	perr "hansard/internal/platform/errors"
	"hansard/internal/platform/logger"
	"hansard/internal/services/session/domain"
)

// Service implements domain.WriterPort over a bound repo
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.Repo]
	log    logger.Logger
}

// New constructs the session service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Service {
	if db == nil {
		panic("session.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("session.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder, log: *logger.Named("session")}
}

// Current returns the session marked current
func (s *Service) Current(ctx context.Context) (domain.Session, bool, error) {
	var (
		sess domain.Session
		ok   bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		sess, ok, err = s.Binder.Bind(q).Current(ctx)
		return err
	})
	return sess, ok, err
}

// SetCurrent moves the current marker to the named session. The clear and
// the mark share one transaction so the partial unique index never sees
// two current rows
func (s *Service) SetCurrent(ctx context.Context, name string) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)
		if err := repo.ClearCurrent(ctx); err != nil {
			return err
		}
		n, err := repo.MarkCurrent(ctx, name)
		if err != nil {
			return err
		}
		if n == 0 {
			return perr.Newf(perr.ErrorCodeNotFound, "session %q does not exist", name)
		}
		s.log.Info().Str("session", name).Msg("current session set")
		return nil
	})
}

// EnsureSession creates the session on first sighting and returns the row
func (s *Service) EnsureSession(ctx context.Context, name string, start time.Time) (domain.Session, error) {
	var sess domain.Session
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)
		if err := repo.Insert(ctx, name, start); err != nil {
			return err
		}
		got, ok, err := repo.ByName(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			return perr.Newf(perr.ErrorCodeDB, "session %q vanished after insert", name)
		}
		sess = got
		return nil
	})
	return sess, err
}
