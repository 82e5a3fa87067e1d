// Package service implements the vote ingestion pipeline
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"hansard/internal/adapters/parliament"
	"hansard/internal/core/party"
	"hansard/internal/modkit/repokit"
	perr "hansard/internal/platform/errors"
	"hansard/internal/platform/logger"
	strs "hansard/internal/platform/strings"
	cachedom "hansard/internal/services/cache/domain"
	recdom "hansard/internal/services/reconcile/domain"
	runsdom "hansard/internal/services/runs/domain"
	sessiondom "hansard/internal/services/session/domain"
	"hansard/internal/services/votes/domain"
)

// Config holds pipeline tuning
type Config struct {
	PageLimit  int           // listing page size; <=0 -> 100
	MaxPages   int           // page bound per entity; 0 = unlimited
	Workers    int           // vote group fan out; <=0 -> 4
	BatchDelay time.Duration // pause between listing pages
}

// Service implements domain.SyncPort
type Service struct {
	DB       repokit.TxRunner
	Binder   repokit.Binder[domain.StorageRepo]
	Client   domain.Client
	Cache    domain.CacheThrough
	Res      domain.Resolver
	Sessions domain.Sessions
	Cfg      Config

	log      logger.Logger
	validate *validator.Validate
	sleep    func(time.Duration)
}

// New constructs the vote ingestion service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	client domain.Client,
	cache domain.CacheThrough,
	res domain.Resolver,
	sessions domain.Sessions,
	cfg Config,
) *Service {
	if db == nil {
		panic("votes.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("votes.Service requires a non nil Repo binder")
	}
	if client == nil {
		panic("votes.Service requires a client")
	}
	if res == nil {
		panic("votes.Service requires a resolver")
	}
	if sessions == nil {
		panic("votes.Service requires a session source")
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Service{
		DB: db, Binder: binder, Client: client, Cache: cache,
		Res: res, Sessions: sessions, Cfg: cfg,
		log:      *logger.Named("votes"),
		validate: validator.New(),
		sleep:    time.Sleep,
	}
}

// SyncPolitician ingests the ballot history of one politician slug
func (s *Service) SyncPolitician(ctx context.Context, slug string) (runsdom.RunStats, error) {
	var stats runsdom.RunStats
	sess, err := s.currentSession(ctx)
	if err != nil {
		return stats, err
	}

	return s.runBallotPages(ctx, parliament.BallotFilters(slug, ""), s.watermarks(nil, sess), sess)
}

// SyncBallotFeed ingests the chamber-wide recent ballot feed
func (s *Service) SyncBallotFeed(ctx context.Context) (runsdom.RunStats, error) {
	var stats runsdom.RunStats
	sess, err := s.currentSession(ctx)
	if err != nil {
		return stats, err
	}
	return s.runBallotPages(ctx, parliament.BallotFilters("", ""), s.watermarks(nil, sess), sess)
}

// SyncBillVotes ingests all votes touching one local bill
func (s *Service) SyncBillVotes(ctx context.Context, billID int64) (runsdom.RunStats, error) {
	var stats runsdom.RunStats
	sess, err := s.currentSession(ctx)
	if err != nil {
		return stats, err
	}

	meta, ok, err := s.billMeta(ctx, billID)
	if err != nil {
		return stats, err
	}
	if !ok {
		return stats, perr.Newf(perr.ErrorCodeNotFound, "bill %d does not exist", billID)
	}

	wms := s.watermarks(&billID, sess)

	billPath := parliament.BillPath(meta.Session, meta.Number)
	filters := parliament.VotesSince(sinceDate(sess))
	filters["bill"] = billPath
	offset := 0
	for page := 0; s.Cfg.MaxPages <= 0 || page < s.Cfg.MaxPages; page++ {
		items, hasMore, err := s.fetchVotePage(ctx, filters, billPath, offset)
		if err != nil {
			if page == 0 {
				return stats, perr.Wrapf(err, perr.CodeOf(err), "vote sync aborted on first page bill=%d", billID)
			}
			s.log.Warn().Err(err).Int("page", page).Msg("vote page fetch failed, stopping early")
			stats.Erred++
			break
		}
		for _, raw := range items {
			var vote parliament.Vote
			if err := json.Unmarshal(raw, &vote); err != nil {
				s.log.Warn().Err(err).Msg("vote listing item undecodable, skipped")
				stats.Skipped++
				continue
			}
			voteURL := vote.URL
			if voteURL == "" {
				vs := vote.Session
				if vs == "" {
					vs = meta.Session
				}
				voteURL = parliament.VotePath(vs, vote.Number)
			}
			ballots, err := s.fetchBallotsForVote(ctx, voteURL)
			if err != nil {
				s.log.Warn().Err(err).Str("vote", voteURL).Msg("ballot fetch failed, vote skipped")
				stats.Erred++
				continue
			}
			stats.Add(s.processVoteURL(ctx, voteURL, ballots, wms, sess))
		}
		if !hasMore {
			break
		}
		offset += s.Cfg.PageLimit
		if s.Cfg.BatchDelay > 0 {
			s.sleep(s.Cfg.BatchDelay)
		}
	}

	s.logStats("bill votes sync done", stats)
	return stats, nil
}

// runBallotPages drives the shared shape: page the ballot listing, group
// by vote, then fan the groups out to workers
func (s *Service) runBallotPages(
	ctx context.Context,
	filters map[string]string,
	wms *watermarks,
	sess sessiondom.Session,
) (runsdom.RunStats, error) {
	var stats runsdom.RunStats

	groups := map[string][]parliament.Ballot{}
	var order []string

	offset := 0
	for page := 0; s.Cfg.MaxPages <= 0 || page < s.Cfg.MaxPages; page++ {
		items, hasMore, err := s.Client.FetchPage(ctx, parliament.EndpointBallots, filters, offset, s.Cfg.PageLimit)
		if err != nil {
			if page == 0 {
				return stats, perr.Wrapf(err, perr.CodeOf(err), "ballot sync aborted on first page")
			}
			s.log.Warn().Err(err).Int("page", page).Msg("ballot page fetch failed, stopping early")
			stats.Erred++
			break
		}
		for _, raw := range items {
			var b parliament.Ballot
			if err := json.Unmarshal(raw, &b); err != nil {
				s.log.Warn().Err(err).Msg("ballot item undecodable, skipped")
				stats.Skipped++
				continue
			}
			if b.VoteURL == "" {
				stats.Skipped++
				continue
			}
			if _, seen := groups[b.VoteURL]; !seen {
				order = append(order, b.VoteURL)
			}
			groups[b.VoteURL] = append(groups[b.VoteURL], b)
		}
		if !hasMore {
			break
		}
		offset += s.Cfg.PageLimit
		if s.Cfg.BatchDelay > 0 {
			s.sleep(s.Cfg.BatchDelay)
		}
	}

	// one detail fetch per vote regardless of how many ballots point at it
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.Cfg.Workers)
	)
	for _, voteURL := range order {
		wg.Add(1)
		sem <- struct{}{}
		go func(u string, bs []parliament.Ballot) {
			defer wg.Done()
			defer func() { <-sem }()
			st := s.processVoteURL(ctx, u, bs, wms, sess)
			mu.Lock()
			stats.Add(st)
			mu.Unlock()
		}(voteURL, groups[voteURL])
	}
	wg.Wait()

	s.logStats("ballot sync done", stats)
	return stats, nil
}

func (s *Service) processVoteURL(
	ctx context.Context,
	voteURL string,
	ballots []parliament.Ballot,
	wms *watermarks,
	sess sessiondom.Session,
) runsdom.RunStats {
	vote, err := s.fetchVote(ctx, voteURL)
	if err != nil {
		if perr.IsNotFound(err) {
			s.log.Debug().Str("vote", voteURL).Msg("vote absent upstream, skipped")
			return runsdom.RunStats{Skipped: len(ballots)}
		}
		s.log.Warn().Err(err).Str("vote", voteURL).Msg("vote detail fetch failed")
		return runsdom.RunStats{Erred: 1}
	}
	return s.processVote(ctx, vote, ballots, wms, sess)
}

func (s *Service) processVote(
	ctx context.Context,
	vote parliament.Vote,
	ballots []parliament.Ballot,
	wms *watermarks,
	sess sessiondom.Session,
) runsdom.RunStats {
	var stats runsdom.RunStats

	voteSession := vote.Session
	if voteSession == "" {
		voteSession = sess.Name
	}
	externalID := fmt.Sprintf("%s/%d", voteSession, vote.Number)

	var (
		billID     *int64
		billNumber string
		meta       domain.BillMeta
	)
	if u := strs.Deref(vote.BillURL); u != "" {
		if bs, bn, ok := parliament.BillRef(u); ok {
			billNumber = bn
			id, found, err := s.Res.ResolveBill(ctx, nil, bn, bs)
			if err != nil {
				s.log.Warn().Err(err).Str("bill", u).Msg("bill resolution failed")
			} else if found {
				billID = &id
				if m, ok, err := s.billMeta(ctx, id); err == nil && ok {
					meta = m
				}
			}
		}
	}

	date, ok := ResolveVoteDate(vote.Date, meta.Introduced, sess.StartDate)
	if !ok {
		s.log.Warn().
			Str("external_id", externalID).
			Str("bill_number", billNumber).
			Msg("vote has no resolvable date, dropped")
		stats.Skipped += len(ballots)
		return stats
	}
	result := MapResult(vote.Result)

	recs := make([]domain.VoteRecord, 0, len(ballots))
	for _, b := range ballots {
		slug := parliament.SlugFromURL(b.PoliticianURL)
		leg, found, err := s.Res.ResolveLegislator(ctx, recdom.LegislatorRef{Slug: slug})
		if err != nil {
			stats.Erred++
			continue
		}
		if !found {
			s.log.Debug().Str("slug", slug).Msg("ballot holder unresolved, skipped")
			stats.Skipped++
			continue
		}

		// only strictly newer ballots land, judged against the holder's
		// own stored frontier so one member's history never gates
		// another's backfill
		wm, err := wms.For(ctx, leg.ID)
		if err != nil {
			stats.Erred++
			continue
		}
		if !date.After(wm) {
			stats.Skipped++
			continue
		}

		memberParty := party.Normalize(leg.Party)
		if memberParty == party.Unknown {
			if rp, ok := s.Res.(interface {
				RefreshParty(ctx context.Context, leg recdom.Legislator) (recdom.Legislator, error)
			}); ok {
				if fresh, err := rp.RefreshParty(ctx, leg); err == nil {
					leg = fresh
					memberParty = party.Normalize(leg.Party)
				}
			}
		}

		rec := domain.VoteRecord{
			ExternalID:    externalID,
			LegislatorID:  leg.ID,
			Session:       voteSession,
			Number:        vote.Number,
			Ballot:        MapBallot(b.BallotValue),
			Result:        result,
			VoteDate:      date,
			Description:   vote.Description.En,
			BillID:        billID,
			BillNumber:    billNumber,
			SponsorParty:  meta.SponsorParty,
			PartyPosition: PartyPositionFor(vote.PartyVotes, memberParty),
		}
		if err := s.validate.Struct(rec); err != nil {
			s.log.Warn().Err(err).Str("external_id", externalID).Msg("vote record rejected")
			stats.Skipped++
			continue
		}
		recs = append(recs, rec)
	}

	if len(recs) == 0 {
		return stats
	}

	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		for _, rec := range recs {
			var inserted bool
			err := repokit.WithSavepoint(ctx, q, func(q repokit.Queryer) error {
				var err error
				inserted, err = s.Binder.Bind(q).UpsertVote(ctx, rec)
				return err
			})
			switch {
			case err == nil && inserted:
				stats.Inserted++
			case err == nil:
				stats.Updated++
			case perr.IsDuplicateKey(err):
				stats.Skipped++
			default:
				stats.Erred++
				s.log.Warn().Err(err).
					Str("external_id", rec.ExternalID).
					Int64("legislator_id", rec.LegislatorID).
					Msg("vote record failed, batch continues")
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("external_id", externalID).Msg("vote batch transaction failed")
		stats.Erred++
	}
	return stats
}

func (s *Service) fetchVote(ctx context.Context, voteURL string) (parliament.Vote, error) {
	fetch := func(ctx context.Context) ([]byte, error) { return s.Client.FetchResource(ctx, voteURL) }

	var body []byte
	var err error
	if s.Cache != nil {
		body, err = s.Cache.Through(ctx, "vote:"+voteURL, cachedom.TTLDetail, fetch)
	} else {
		body, err = fetch(ctx)
	}
	if err != nil {
		return parliament.Vote{}, err
	}
	var vote parliament.Vote
	if err := json.Unmarshal(body, &vote); err != nil {
		return parliament.Vote{}, perr.Wrapf(err, perr.ErrorCodeJSON, "vote decode failed url=%s", voteURL)
	}
	if vote.URL == "" {
		vote.URL = voteURL
	}
	return vote, nil
}

func (s *Service) fetchBallotsForVote(ctx context.Context, voteURL string) ([]parliament.Ballot, error) {
	var out []parliament.Ballot
	offset := 0
	for page := 0; s.Cfg.MaxPages <= 0 || page < s.Cfg.MaxPages; page++ {
		items, hasMore, err := s.Client.FetchPage(
			ctx, parliament.EndpointBallots, parliament.BallotFilters("", voteURL), offset, s.Cfg.PageLimit,
		)
		if err != nil {
			return nil, err
		}
		for _, raw := range items {
			var b parliament.Ballot
			if err := json.Unmarshal(raw, &b); err != nil {
				continue
			}
			if b.VoteURL == "" {
				b.VoteURL = voteURL
			}
			out = append(out, b)
		}
		if !hasMore {
			break
		}
		offset += s.Cfg.PageLimit
	}
	return out, nil
}

func (s *Service) currentSession(ctx context.Context) (sessiondom.Session, error) {
	sess, ok, err := s.Sessions.Current(ctx)
	if err != nil {
		return sessiondom.Session{}, err
	}
	if !ok {
		return sessiondom.Session{}, perr.New(perr.ErrorCodeNotFound, "no current session watermark")
	}
	return sess, nil
}

// watermarks memoizes per legislator watermarks for one run. The bar is
// the later of the legislator's own stored frontier in scope and the
// session start
type watermarks struct {
	svc    *Service
	billID *int64
	floor  time.Time

	mu    sync.Mutex
	byLeg map[int64]time.Time
}

func (s *Service) watermarks(billID *int64, sess sessiondom.Session) *watermarks {
	return &watermarks{svc: s, billID: billID, floor: sess.StartDate, byLeg: map[int64]time.Time{}}
}

// For returns the watermark for one ballot holder, reading their latest
// stored vote date on first sight and caching it for the run
func (w *watermarks) For(ctx context.Context, legislatorID int64) (time.Time, error) {
	w.mu.Lock()
	wm, ok := w.byLeg[legislatorID]
	w.mu.Unlock()
	if ok {
		return wm, nil
	}

	var latest time.Time
	var found bool
	err := w.svc.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		latest, found, err = w.svc.Binder.Bind(q).LatestVoteDate(ctx, &legislatorID, w.billID)
		return err
	})
	if err != nil {
		return time.Time{}, err
	}
	wm = w.floor
	if found && latest.After(wm) {
		wm = latest
	}

	w.mu.Lock()
	w.byLeg[legislatorID] = wm
	w.mu.Unlock()
	return wm, nil
}

// sinceDate formats the session start for the listing date filter
func sinceDate(sess sessiondom.Session) string {
	if sess.StartDate.IsZero() {
		return ""
	}
	return sess.StartDate.Format("2006-01-02")
}

// votePage is the cached shape of one vote listing page
type votePage struct {
	Objects []json.RawMessage `json:"objects"`
	HasMore bool              `json:"has_more"`
}

// fetchVotePage reads one vote listing page through the short lived list
// cache; vote lists move while a session sits, so they expire in hours
// where immutable details keep for days
func (s *Service) fetchVotePage(ctx context.Context, filters map[string]string, key string, offset int) ([]json.RawMessage, bool, error) {
	if s.Cache == nil {
		return s.Client.FetchPage(ctx, parliament.EndpointVotes, filters, offset, s.Cfg.PageLimit)
	}
	payload, err := s.Cache.Through(ctx, fmt.Sprintf("votes:%s:%d", key, offset), cachedom.TTLVoteList,
		func(ctx context.Context) ([]byte, error) {
			items, hasMore, err := s.Client.FetchPage(ctx, parliament.EndpointVotes, filters, offset, s.Cfg.PageLimit)
			if err != nil {
				return nil, err
			}
			return json.Marshal(votePage{Objects: items, HasMore: hasMore})
		})
	if err != nil {
		return nil, false, err
	}
	var page votePage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeJSON, "cached vote page decode failed")
	}
	return page.Objects, page.HasMore, nil
}

func (s *Service) billMeta(ctx context.Context, billID int64) (domain.BillMeta, bool, error) {
	var (
		meta domain.BillMeta
		ok   bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		meta, ok, err = s.Binder.Bind(q).BillMeta(ctx, billID)
		return err
	})
	return meta, ok, err
}

// Purge removes one legislator's vote rows ahead of a clean re-sync
func (s *Service) Purge(ctx context.Context, legislatorID int64) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).PurgeLegislator(ctx, legislatorID)
		return err
	})
	return n, err
}

func (s *Service) logStats(msg string, stats runsdom.RunStats) {
	s.log.Info().
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("erred", stats.Erred).
		Msg(msg)
}
