// Package service provides the response cache service
package service

import (
	"context"
	"time"

	"hansard/internal/modkit/repokit"
	"hansard/internal/platform/logger"
	"hansard/internal/services/cache/domain"
)

// Service fronts the KV store with a write-through fetch helper
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.KV]
	log    logger.Logger
}

// New constructs the cache service
func New(db repokit.TxRunner, binder repokit.Binder[domain.KV]) *Service {
	if db == nil {
		panic("cache.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("cache.Service requires a non nil KV binder")
	}
	return &Service{DB: db, Binder: binder, log: *logger.Named("cache")}
}

// Get implements domain.KV
func (s *Service) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		body []byte
		ok   bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		body, ok, err = s.Binder.Bind(q).Get(ctx, key)
		return err
	})
	return body, ok, err
}

// Put implements domain.KV
func (s *Service) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Put(ctx, key, payload, ttl)
	})
}

// Purge implements domain.KV
func (s *Service) Purge(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).Purge(ctx)
		return err
	})
	if err == nil && n > 0 {
		s.log.Debug().Int64("rows", n).Msg("cache purged expired rows")
	}
	return n, err
}

// Through returns the cached payload for key or fetches, stores and
// returns it. Fetch errors pass through untouched; a store failure is
// logged and swallowed since the payload is already in hand
func (s *Service) Through(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetch func(ctx context.Context) ([]byte, error),
) ([]byte, error) {
	if body, ok, err := s.Get(ctx, key); err == nil && ok {
		return body, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching")
	}

	body, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, key, body, ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return body, nil
}
