// Package domain holds the party loyalty types and ports
package domain

import (
	"time"

	votesdom "hansard/internal/services/votes/domain"
)

// BallotRow is the slice of a vote row loyalty reads: the member's
// ballot and the sponsoring party of the linked bill
type BallotRow struct {
	Ballot       votesdom.Ballot
	SponsorParty string
}

// Stats is a legislator's fully recomputed loyalty breakdown. Rows with
// a different party sponsor voted Nay are excluded outright and appear
// in no bucket or denominator
type Stats struct {
	LegislatorID int64
	Party        string

	With      int // same party sponsor, voted Yea
	Against   int // same party sponsor, voted Nay
	Free      int // different party sponsor, voted Yea
	Abstained int // paired, abstained or absent

	Total int

	PctWith      float64
	PctAgainst   float64
	PctFree      float64
	PctAbstained float64

	ComputedAt time.Time
	ExpiresAt  time.Time
}
