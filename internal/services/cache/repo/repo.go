// Package repo provides postgres access for the response cache
package repo

import (
	"context"
	"time"

	"hansard/internal/modkit/repokit"
	"hansard/internal/services/cache/domain"
)

type (
	// PG is a Postgres binder for domain.KV
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.KV
func NewPG() repokit.Binder[domain.KV] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.KV { return &queries{q: q} }

// Get returns the payload for key when the row has not expired
func (r *queries) Get(ctx context.Context, key string) ([]byte, bool, error) {
	rows, err := r.q.Query(ctx, `
		SELECT payload FROM api_cache
		WHERE key = $1 AND expires_at > now()
	`, key)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var payload []byte
	if err := rows.Scan(&payload); err != nil {
		return nil, false, err
	}
	return payload, true, rows.Err()
}

// Put upserts key; a refreshed row gets a fresh expiry
func (r *queries) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO api_cache (key, payload, expires_at)
		VALUES ($1, $2, now() + make_interval(secs => $3))
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at
	`, key, payload, ttl.Seconds())
	return err
}

// Purge deletes expired rows
func (r *queries) Purge(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM api_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
