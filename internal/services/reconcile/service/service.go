// Package service implements the entity reconciliation chains
package service

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"hansard/internal/adapters/parliament"
	"hansard/internal/core/party"
	"hansard/internal/modkit/repokit"
	"hansard/internal/platform/logger"
	cachedom "hansard/internal/services/cache/domain"
	"hansard/internal/services/reconcile/domain"
)

// Fetcher is the slice of the API client this service needs
type Fetcher interface {
	FetchResource(ctx context.Context, path string) ([]byte, error)
}

// CacheThrough is the write-through fetch surface of the cache service
type CacheThrough interface {
	Through(ctx context.Context, key string, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// matcher is one stage of the legislator resolution chain
type matcher struct {
	name string
	fn   func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error)
}

// legislatorChain runs in order; the first hit wins and later stages
// never get a chance to second guess it
var legislatorChain = []matcher{
	{"exact_name", func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
		if ref.Name == "" {
			return domain.Legislator{}, false, nil
		}
		return repo.ByExactName(ctx, ref.Name)
	}},
	{"folded_name", func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
		if ref.Name == "" {
			return domain.Legislator{}, false, nil
		}
		return repo.ByFoldedName(ctx, ref.Name)
	}},
	{"slug_parts", func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
		first, last := NameFromSlug(ref.Slug)
		if last == "" {
			return domain.Legislator{}, false, nil
		}
		return repo.BySlugParts(ctx, first, last)
	}},
	{"slug_like", func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
		if ref.Slug == "" {
			return domain.Legislator{}, false, nil
		}
		return repo.BySlugLike(ctx, ref.Slug)
	}},
	{"name_substring", func(ctx context.Context, repo domain.Repo, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
		if ref.Name == "" {
			return domain.Legislator{}, false, nil
		}
		return repo.ByNameSubstring(ctx, ref.Name)
	}},
}

// Service implements domain.ResolverPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.Repo]

	// Optional membership enrichment; nil disables it
	Fetch Fetcher
	Cache CacheThrough

	log logger.Logger
}

// New constructs the reconciliation service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Service {
	if db == nil {
		panic("reconcile.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("reconcile.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder, log: *logger.Named("reconcile")}
}

// WithMembershipFetch wires the external politician lookup used to
// refresh a legislator's party when the stored one is unusable
func (s *Service) WithMembershipFetch(f Fetcher, c CacheThrough) *Service {
	s.Fetch, s.Cache = f, c
	return s
}

// ResolveLegislator walks the matcher chain; a miss is not an error
func (s *Service) ResolveLegislator(ctx context.Context, ref domain.LegislatorRef) (domain.Legislator, bool, error) {
	var (
		leg domain.Legislator
		hit bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)
		for _, m := range legislatorChain {
			got, ok, err := m.fn(ctx, repo, ref)
			if err != nil {
				return err
			}
			if ok {
				s.log.Debug().
					Str("strategy", m.name).
					Str("slug", ref.Slug).
					Int64("legislator_id", got.ID).
					Msg("legislator resolved")
				leg, hit = got, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.Legislator{}, false, err
	}
	return leg, hit, nil
}

// ResolveBill applies the id precedence chain; a miss is not an error
func (s *Service) ResolveBill(ctx context.Context, legisinfoID *int64, number, session string) (int64, bool, error) {
	var (
		id  int64
		hit bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		repo := s.Binder.Bind(q)
		if legisinfoID != nil {
			got, ok, err := repo.BillByLegisinfoID(ctx, *legisinfoID)
			if err != nil || ok {
				id, hit = got, ok
				return err
			}
		}
		if number != "" && session != "" {
			got, ok, err := repo.BillByNumberSession(ctx, number, session)
			if err != nil || ok {
				id, hit = got, ok
				return err
			}
		}
		if number != "" {
			got, ok, err := repo.BillByNumberLatest(ctx, number)
			if err != nil || ok {
				id, hit = got, ok
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return id, hit, nil
}

// RefreshParty re-reads the politician's memberships from the feed and
// stores the canonical current party. Without wired fetch seams it
// returns the legislator untouched
func (s *Service) RefreshParty(ctx context.Context, leg domain.Legislator) (domain.Legislator, error) {
	if s.Fetch == nil || leg.Slug == "" {
		return leg, nil
	}

	path := parliament.PoliticianPath(leg.Slug)
	fetch := func(ctx context.Context) ([]byte, error) { return s.Fetch.FetchResource(ctx, path) }

	var body []byte
	var err error
	if s.Cache != nil {
		body, err = s.Cache.Through(ctx, "politician:"+leg.Slug, cachedom.TTLDetail, fetch)
	} else {
		body, err = fetch(ctx)
	}
	if err != nil {
		return leg, err
	}

	var pol parliament.Politician
	if err := json.Unmarshal(body, &pol); err != nil {
		return leg, err
	}

	p := currentParty(pol.Memberships)
	if !p.Known() || string(p) == leg.Party {
		return leg, nil
	}

	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).UpdateParty(ctx, leg.ID, string(p))
	})
	if err != nil {
		return leg, err
	}
	leg.Party = string(p)
	s.log.Info().Str("slug", leg.Slug).Str("party", string(p)).Msg("legislator party refreshed")
	return leg, nil
}

// currentParty picks the open ended membership, falling back to the one
// with the latest start date
func currentParty(ms []parliament.Membership) party.Party {
	best := -1
	for i, m := range ms {
		if m.EndDate == "" {
			best = i
			break
		}
		if best < 0 || m.StartDate > ms[best].StartDate {
			best = i
		}
	}
	if best < 0 {
		return party.Unknown
	}
	m := ms[best]
	if p := party.Normalize(m.Party.ShortName.En); p.Known() {
		return p
	}
	return party.Normalize(m.Party.Name.En)
}
