// Package domain holds the vote ingestion types and ports
package domain

import "time"

// Ballot is a legislator's recorded position
type Ballot string

// Ballot values. NotVoting absorbs anything the feed invents
const (
	BallotYea       Ballot = "yea"
	BallotNay       Ballot = "nay"
	BallotPaired    Ballot = "paired"
	BallotAbstained Ballot = "abstained"
	BallotNotVoting Ballot = "not_voting"
)

// Result is the chamber outcome of a vote
type Result string

// Result values. Negatived is the default for unknown outcomes
const (
	ResultAgreedTo  Result = "agreed_to"
	ResultNegatived Result = "negatived"
	ResultTie       Result = "tie"
)

// PartyPosition is a party's collective stance on a vote
type PartyPosition string

// PartyPosition values. FreeVote covers absent or ambiguous tallies
const (
	PositionFor      PartyPosition = "for"
	PositionAgainst  PartyPosition = "against"
	PositionFreeVote PartyPosition = "free_vote"
)

// VoteRecord is one legislator's ballot on one vote, the unit the
// persistence layer works in
type VoteRecord struct {
	ExternalID   string `validate:"required"`
	LegislatorID int64  `validate:"required,gt=0"`
	Session      string `validate:"required"`
	Number       int
	Ballot       Ballot    `validate:"required"`
	Result       Result    `validate:"required"`
	VoteDate     time.Time `validate:"required"`
	Description  string

	// Bill linkage is mutable after first write; the rest is not
	BillID        *int64
	BillNumber    string
	SponsorParty  string
	PartyPosition PartyPosition
}

// BillMeta is the slice of a bill row the pipeline reads back
type BillMeta struct {
	Number       string
	Session      string
	Introduced   *time.Time
	SponsorParty string
}
