package service

import (
	"hansard/internal/core/party"
	"hansard/internal/services/loyalty/domain"
	votesdom "hansard/internal/services/votes/domain"
)

// compute partitions a legislator's working set into the four loyalty
// buckets. A Nay against a different party's bill is deliberately left
// out of every bucket and out of the denominator
func compute(legID int64, p party.Party, rows []domain.BallotRow) domain.Stats {
	s := domain.Stats{LegislatorID: legID, Party: string(p)}
	for _, row := range rows {
		sponsor := party.Normalize(row.SponsorParty)
		if !sponsor.Known() {
			continue
		}
		same := p.Known() && sponsor == p
		switch row.Ballot {
		case votesdom.BallotYea:
			if same {
				s.With++
			} else {
				s.Free++
			}
		case votesdom.BallotNay:
			if same {
				s.Against++
			}
		default:
			s.Abstained++
		}
	}
	s.Total = s.With + s.Against + s.Free + s.Abstained
	if s.Total > 0 {
		t := float64(s.Total)
		s.PctWith = 100 * float64(s.With) / t
		s.PctAgainst = 100 * float64(s.Against) / t
		s.PctFree = 100 * float64(s.Free) / t
		s.PctAbstained = 100 * float64(s.Abstained) / t
	}
	return s
}
