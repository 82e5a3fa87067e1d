package domain

import "context"

// ResolverPort is the reconciliation surface the pipelines call.
// A miss is (zero, false, nil); errors are infrastructure faults only
type ResolverPort interface {
	ResolveLegislator(ctx context.Context, ref LegislatorRef) (Legislator, bool, error)
	ResolveBill(ctx context.Context, legisinfoID *int64, number, session string) (int64, bool, error)
}

// Repo is the storage surface the matcher chain runs against
type Repo interface {
	ByExactName(ctx context.Context, name string) (Legislator, bool, error)
	ByFoldedName(ctx context.Context, name string) (Legislator, bool, error)
	BySlugParts(ctx context.Context, first, last string) (Legislator, bool, error)
	BySlugLike(ctx context.Context, pattern string) (Legislator, bool, error)
	ByNameSubstring(ctx context.Context, name string) (Legislator, bool, error)

	BillByLegisinfoID(ctx context.Context, id int64) (int64, bool, error)
	BillByNumberSession(ctx context.Context, number, session string) (int64, bool, error)
	BillByNumberLatest(ctx context.Context, number string) (int64, bool, error)

	UpdateParty(ctx context.Context, id int64, party string) error
}
