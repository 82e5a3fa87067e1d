package domain

import "context"

// CalculatorPort is the public loyalty surface
type CalculatorPort interface {
	// Recompute rebuilds one legislator's stats row
	Recompute(ctx context.Context, legislatorID int64) (Stats, error)

	// RecomputeAll rebuilds every legislator that has votes on record
	// and reports how many rows were written
	RecomputeAll(ctx context.Context) (int, error)
}

// Member pairs a legislator with their stored party
type Member struct {
	ID    int64
	Party string
}

// Repo is the storage surface bound per transaction
type Repo interface {
	// MembersWithVotes lists legislators that have at least one vote row
	MembersWithVotes(ctx context.Context) ([]Member, error)

	// MemberParty reads one legislator's stored party
	MemberParty(ctx context.Context, legislatorID int64) (string, bool, error)

	// BallotsFor lists the loyalty working set: bill linked vote rows
	// with a recorded sponsor party
	BallotsFor(ctx context.Context, legislatorID int64) ([]BallotRow, error)

	// UpsertStats overwrites the whole stats row
	UpsertStats(ctx context.Context, s Stats) error
}
