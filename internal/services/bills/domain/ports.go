package domain

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	recdom "hansard/internal/services/reconcile/domain"
	runsdom "hansard/internal/services/runs/domain"
	sessiondom "hansard/internal/services/session/domain"
)

// Ports are the cross module collaborators the bills module is wired
// with; the concrete values come from sibling modules
type Ports struct {
	Client   Client
	Cache    CacheThrough
	Res      Resolver
	Sessions sessiondom.WriterPort
}

// Resolver is the slice of the reconciler this pipeline needs
type Resolver interface {
	ResolveLegislator(ctx context.Context, ref recdom.LegislatorRef) (recdom.Legislator, bool, error)
}

// CacheThrough is the write-through fetch surface of the cache service
type CacheThrough interface {
	Through(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// SyncPort is the public surface of the bill sync pipeline
type SyncPort interface {
	// SyncSession ingests all bills of one session ("45-1")
	SyncSession(ctx context.Context, session string) (runsdom.RunStats, error)
}

// Client is the slice of the API client the pipeline consumes
type Client interface {
	FetchPage(ctx context.Context, endpoint string, filters map[string]string, offset, limit int) ([]json.RawMessage, bool, error)
	FetchResource(ctx context.Context, path string) ([]byte, error)
}

// StorageRepo is the storage surface bound per transaction
type StorageRepo interface {
	// UpsertBill inserts or enriches the row, reporting which happened
	UpsertBill(ctx context.Context, b Bill) (id int64, inserted bool, err error)

	// UpsertSponsorship inserts once; reruns report false
	UpsertSponsorship(ctx context.Context, s Sponsorship) (bool, error)

	// PurgeSession removes a session's sponsorships and bills
	PurgeSession(ctx context.Context, session string) (int64, error)

	// BillIDs lists a session's bill ids for downstream vote sync
	BillIDs(ctx context.Context, session string) ([]int64, error)
}
