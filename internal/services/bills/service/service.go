// Package service implements the bill sync pipeline
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"hansard/internal/adapters/parliament"
	"hansard/internal/modkit/repokit"
	perr "hansard/internal/platform/errors"
	"hansard/internal/platform/logger"
	strs "hansard/internal/platform/strings"
	"hansard/internal/services/bills/domain"
	cachedom "hansard/internal/services/cache/domain"
	recdom "hansard/internal/services/reconcile/domain"
	runsdom "hansard/internal/services/runs/domain"
)

// Config holds pipeline tuning
type Config struct {
	PageLimit  int           // listing page size; <=0 -> 100
	MaxPages   int           // page bound per run; 0 = unlimited
	BatchDelay time.Duration // pause between listing pages
}

// Service implements domain.SyncPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.StorageRepo]
	Client domain.Client
	Cache  domain.CacheThrough
	Res    domain.Resolver
	Cfg    Config

	log      logger.Logger
	validate *validator.Validate
	sleep    func(time.Duration)

	ensureSession func(ctx context.Context, name string, start time.Time) error
}

// New constructs the bill sync service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	client domain.Client,
	cache domain.CacheThrough,
	res domain.Resolver,
	ensureSession func(ctx context.Context, name string, start time.Time) error,
	cfg Config,
) *Service {
	if db == nil {
		panic("bills.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("bills.Service requires a non nil Repo binder")
	}
	if client == nil {
		panic("bills.Service requires a client")
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	return &Service{
		DB: db, Binder: binder, Client: client, Cache: cache, Res: res,
		Cfg:           cfg,
		log:           *logger.Named("bills"),
		validate:      validator.New(),
		sleep:         time.Sleep,
		ensureSession: ensureSession,
	}
}

// SyncSession ingests one session's bills. The first listing page is
// fatal when it cannot be fetched; later pages degrade to a warning so a
// mostly complete run still lands
func (s *Service) SyncSession(ctx context.Context, session string) (runsdom.RunStats, error) {
	var stats runsdom.RunStats
	offset := 0
	for page := 0; s.Cfg.MaxPages <= 0 || page < s.Cfg.MaxPages; page++ {
		items, hasMore, err := s.Client.FetchPage(
			ctx, parliament.EndpointBills, parliament.BillsInSession(session), offset, s.Cfg.PageLimit,
		)
		if err != nil {
			if page == 0 {
				return stats, perr.Wrapf(err, perr.CodeOf(err), "bill sync aborted on first page session=%s", session)
			}
			s.log.Warn().Err(err).Int("page", page).Msg("bill page fetch failed, stopping early")
			stats.Erred++
			break
		}

		records := s.buildBatch(ctx, session, items, &stats)
		if err := s.persistBatch(ctx, records, &stats); err != nil {
			return stats, err
		}

		if !hasMore {
			break
		}
		offset += s.Cfg.PageLimit
		if s.Cfg.BatchDelay > 0 {
			s.sleep(s.Cfg.BatchDelay)
		}
	}

	s.log.Info().
		Str("session", session).
		Int("inserted", stats.Inserted).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("erred", stats.Erred).
		Msg("bill sync done")
	return stats, nil
}

type record struct {
	bill    domain.Bill
	sponsor *int64
}

// buildBatch decodes listing items, pulls the detail payload through the
// cache and reconciles the sponsor. Malformed items are skipped, never fatal
func (s *Service) buildBatch(ctx context.Context, session string, items []json.RawMessage, stats *runsdom.RunStats) []record {
	out := make([]record, 0, len(items))
	for _, raw := range items {
		var listed parliament.Bill
		if err := json.Unmarshal(raw, &listed); err != nil {
			s.log.Warn().Err(err).Msg("bill listing item undecodable, skipped")
			stats.Skipped++
			continue
		}
		if listed.Session == "" {
			listed.Session = session
		}

		detail, err := s.fetchDetail(ctx, listed)
		if err != nil {
			if perr.IsNotFound(err) {
				s.log.Debug().Str("number", listed.Number).Msg("bill detail absent upstream")
			} else {
				s.log.Warn().Err(err).Str("number", listed.Number).Msg("bill detail fetch failed, using listing")
			}
			detail = listed
		}

		rec, err := s.build(ctx, detail)
		if err != nil {
			s.log.Warn().Err(err).Str("number", detail.Number).Msg("bill record rejected")
			stats.Skipped++
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (s *Service) fetchDetail(ctx context.Context, listed parliament.Bill) (parliament.Bill, error) {
	if listed.Number == "" || listed.Session == "" {
		return listed, nil
	}
	path := parliament.BillPath(listed.Session, listed.Number)
	fetch := func(ctx context.Context) ([]byte, error) { return s.Client.FetchResource(ctx, path) }

	var body []byte
	var err error
	if s.Cache != nil {
		body, err = s.Cache.Through(ctx, "bill:"+listed.Session+"/"+listed.Number, cachedom.TTLDetail, fetch)
	} else {
		body, err = fetch(ctx)
	}
	if err != nil {
		return listed, err
	}
	var detail parliament.Bill
	if err := json.Unmarshal(body, &detail); err != nil {
		return listed, perr.Wrapf(err, perr.ErrorCodeJSON, "bill detail decode failed")
	}
	if detail.Session == "" {
		detail.Session = listed.Session
	}
	if detail.Number == "" {
		detail.Number = listed.Number
	}
	return detail, nil
}

func (s *Service) build(ctx context.Context, src parliament.Bill) (record, error) {
	b := domain.Bill{
		LegisinfoID:   src.LegisinfoID,
		Number:        src.Number,
		Session:       src.Session,
		Name:          src.Name.En,
		Introduced:    parseDate(src.Introduced),
		Law:           src.Law,
		PrivateMember: src.PrivateMemberBill,
		Status:        src.Status.En,
	}

	if s.ensureSession != nil && b.Introduced != nil {
		if err := s.ensureSession(ctx, b.Session, *b.Introduced); err != nil {
			s.log.Warn().Err(err).Str("session", b.Session).Msg("session sighting failed")
		}
	}

	var sponsorID *int64
	if u := strs.Deref(src.SponsorPoliticianURL); u != "" && s.Res != nil {
		slug := parliament.SlugFromURL(u)
		leg, ok, err := s.Res.ResolveLegislator(ctx, recdom.LegislatorRef{Slug: slug})
		if err != nil {
			return record{}, err
		}
		if ok {
			id := leg.ID
			sponsorID = &id
			b.SponsorLegislatorID = &id
			b.SponsorParty = leg.Party
		} else {
			s.log.Debug().Str("slug", slug).Msg("bill sponsor unresolved")
		}
	}

	if err := s.validate.Struct(b); err != nil {
		return record{}, perr.Wrap(err, perr.ErrorCodeValidation, "bill failed validation")
	}
	return record{bill: b, sponsor: sponsorID}, nil
}

// persistBatch writes one page of records in a single transaction with a
// savepoint per record so one bad row never takes the page down
func (s *Service) persistBatch(ctx context.Context, records []record, stats *runsdom.RunStats) error {
	if len(records) == 0 {
		return nil
	}
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		for _, rec := range records {
			var inserted bool
			err := repokit.WithSavepoint(ctx, q, func(q repokit.Queryer) error {
				repo := s.Binder.Bind(q)
				id, ins, err := repo.UpsertBill(ctx, rec.bill)
				if err != nil {
					return err
				}
				inserted = ins
				if rec.sponsor != nil {
					_, err = repo.UpsertSponsorship(ctx, domain.Sponsorship{
						LegislatorID: *rec.sponsor,
						BillID:       id,
						Role:         domain.RoleSponsor,
					})
				}
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
					Str("number", rec.bill.Number).
					Str("session", rec.bill.Session).
					Msg("bill record failed, batch continues")
			}
		}
		return nil
	})
}

// BillIDs lists a session's bill ids for downstream vote sync
func (s *Service) BillIDs(ctx context.Context, session string) ([]int64, error) {
	var ids []int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		ids, err = s.Binder.Bind(q).BillIDs(ctx, session)
		return err
	})
	return ids, err
}

// Purge removes a session's rows ahead of a clean re-sync
func (s *Service) Purge(ctx context.Context, session string) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).PurgeSession(ctx, session)
		return err
	})
	return n, err
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
