package domain

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	recdom "hansard/internal/services/reconcile/domain"
	runsdom "hansard/internal/services/runs/domain"
	sessiondom "hansard/internal/services/session/domain"
)

// Ports are the cross module collaborators the votes module is wired
// with; the concrete values come from sibling modules
type Ports struct {
	Client   Client
	Cache    CacheThrough
	Res      Resolver
	Sessions Sessions
}

// Resolver is the slice of the reconciler this pipeline needs
type Resolver interface {
	ResolveLegislator(ctx context.Context, ref recdom.LegislatorRef) (recdom.Legislator, bool, error)
	ResolveBill(ctx context.Context, legisinfoID *int64, number, session string) (int64, bool, error)
}

// Sessions is the watermark lookup surface
type Sessions interface {
	Current(ctx context.Context) (sessiondom.Session, bool, error)
}

// CacheThrough is the write-through fetch surface of the cache service
type CacheThrough interface {
	Through(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// SyncPort is the public surface of the vote ingestion pipeline
type SyncPort interface {
	// SyncPolitician ingests the ballot history of one politician slug
	SyncPolitician(ctx context.Context, slug string) (runsdom.RunStats, error)

	// SyncBillVotes ingests all votes touching one local bill
	SyncBillVotes(ctx context.Context, billID int64) (runsdom.RunStats, error)

	// SyncBallotFeed ingests the chamber-wide recent ballot feed
	SyncBallotFeed(ctx context.Context) (runsdom.RunStats, error)
}

// Client is the slice of the API client the pipeline consumes
type Client interface {
	FetchPage(ctx context.Context, endpoint string, filters map[string]string, offset, limit int) ([]json.RawMessage, bool, error)
	FetchResource(ctx context.Context, path string) ([]byte, error)
}

// StorageRepo is the storage surface bound per transaction
type StorageRepo interface {
	// UpsertVote writes the record; on conflict only the bill linkage
	// moves, ballot, result and date stay as first written
	UpsertVote(ctx context.Context, v VoteRecord) (inserted bool, err error)

	// LatestVoteDate returns the newest stored vote date in scope; both
	// filters nil means chamber wide
	LatestVoteDate(ctx context.Context, legislatorID, billID *int64) (time.Time, bool, error)

	// BillMeta reads back the linkage fields the transformer needs
	BillMeta(ctx context.Context, billID int64) (BillMeta, bool, error)

	// PurgeLegislator removes one legislator's vote rows
	PurgeLegislator(ctx context.Context, legislatorID int64) (int64, error)
}
