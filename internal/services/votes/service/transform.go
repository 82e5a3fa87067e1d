package service

import (
	"strings"
	"time"

	"hansard/internal/adapters/parliament"
	"hansard/internal/core/party"
	"hansard/internal/services/votes/domain"
)

// MapBallot maps a feed ballot literal onto the local enum. Matching is
// case insensitive; anything unrecognized is NotVoting, never an error
func MapBallot(s string) domain.Ballot {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yea":
		return domain.BallotYea
	case "nay":
		return domain.BallotNay
	case "paired":
		return domain.BallotPaired
	case "abstained":
		return domain.BallotAbstained
	default:
		return domain.BallotNotVoting
	}
}

// MapResult maps a feed result literal onto the local enum. Unknown and
// missing results are Negatived
func MapResult(s string) domain.Result {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agreed to":
		return domain.ResultAgreedTo
	case "tie":
		return domain.ResultTie
	default:
		return domain.ResultNegatived
	}
}

// PartyPositionFor reads a party's stance out of the vote's embedded per
// party tally. An absent or unmapped tally entry is a free vote
func PartyPositionFor(tally []parliament.PartyVote, p party.Party) domain.PartyPosition {
	if !p.Known() {
		return domain.PositionFreeVote
	}
	for _, pv := range tally {
		got := party.Normalize(pv.Party.ShortName.En)
		if !got.Known() {
			got = party.Normalize(pv.Party.Name.En)
		}
		if got != p {
			continue
		}
		switch MapBallot(pv.Vote) {
		case domain.BallotYea:
			return domain.PositionFor
		case domain.BallotNay:
			return domain.PositionAgainst
		default:
			return domain.PositionFreeVote
		}
	}
	return domain.PositionFreeVote
}

// ResolveVoteDate walks the fallback chain: the vote's own date, then the
// linked bill's introduction date, then the session start. ok is false
// when all three are missing; such a vote is dropped, never written with
// a zero date
func ResolveVoteDate(voteDate string, billIntroduced *time.Time, sessionStart time.Time) (time.Time, bool) {
	if voteDate != "" {
		if t, err := time.Parse("2006-01-02", voteDate); err == nil {
			return t, true
		}
	}
	if billIntroduced != nil && !billIntroduced.IsZero() {
		return *billIntroduced, true
	}
	if !sessionStart.IsZero() {
		return sessionStart, true
	}
	return time.Time{}, false
}
