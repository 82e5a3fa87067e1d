// Command hansard-sync runs the nightly parliamentary ingestion: bill
// sync, bill linked votes, then the chamber ballot feed. Individual
// stages can be run standalone and a single politician can be targeted
// for debugging
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"hansard/internal/adapters/parliament"
	"hansard/internal/core/version"
	"hansard/internal/modkit"
	"hansard/internal/modkit/module"
	"hansard/internal/modkit/repokit"
	"hansard/internal/platform/config"
	"hansard/internal/platform/logger"
	"hansard/internal/platform/store"

	billsdom "hansard/internal/services/bills/domain"
	billsmod "hansard/internal/services/bills/module"
	cachemod "hansard/internal/services/cache/module"
	recdom "hansard/internal/services/reconcile/domain"
	recmod "hansard/internal/services/reconcile/module"
	runsdom "hansard/internal/services/runs/domain"
	runsmod "hansard/internal/services/runs/module"
	sessionmod "hansard/internal/services/session/module"
	votesdom "hansard/internal/services/votes/domain"
	votesmod "hansard/internal/services/votes/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	apiCfg := root.Prefix("CORE_PARLIAMENT_")

	l := logger.Get()
	bi := version.Info("hansard-sync")
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	st, err := store.Open(context.Background(), store.Config{
		AppName: "hansard-sync",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	var (
		fStage      = flag.String("stage", "all", "stage to run: all | bills | votes | ballots")
		fPolitician = flag.String("politician", "", "restrict vote sync to one politician slug")
		fPurge      = flag.Bool("purge", false, "delete existing rows for the run scope first")
		fSession    = flag.String("session", "", "override the current session (must exist)")
	)
	flag.Parse()

	switch *fStage {
	case "all", "bills", "votes", "ballots":
	default:
		l.Panic().Str("stage", *fStage).Msg("unknown -stage, want all | bills | votes | ballots")
	}

	var pg repokit.TxRunner = st.PG
	if d := pgCfg.MayDuration("TX_TIMEOUT", 0); d > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds())
		pg = repokit.WithBeginHooks(pg, func(ctx context.Context, q repokit.Queryer) error {
			_, err := q.Exec(ctx, stmt)
			return err
		})
	}
	deps := modkit.Deps{Cfg: root, PG: pg, Log: *l}

	client := parliament.NewClient(parliament.Options{
		BaseURL:           apiCfg.MayString("BASE_URL", ""),
		UserAgent:         apiCfg.MayString("USER_AGENT", ""),
		Timeout:           apiCfg.MayDuration("TIMEOUT", 15*time.Second),
		MaxRetries:        apiCfg.MayInt("RETRIES", 4),
		MaxTimeoutRetries: apiCfg.MayInt("TIMEOUT_RETRIES", 2),
		RetryBase:         apiCfg.MayDuration("RETRY_BASE", 500*time.Millisecond),
		RequestGap:        apiCfg.MayDuration("REQUEST_GAP", 500*time.Millisecond),
	})

	cm := cachemod.New(deps)
	sm := sessionmod.New(deps)
	rm := recmod.New(deps)
	rm.Service().WithMembershipFetch(client, cm.Service())
	lm := runsmod.New(deps)
	sessions := module.MustPortsOf[sessionmod.Ports](sm).Sessions
	bm := billsmod.New(deps, modkit.WithPorts(billsdom.Ports{
		Client: client, Cache: cm.Service(), Res: rm.Service(), Sessions: sessions,
	}))
	vm := votesmod.New(deps, modkit.WithPorts(votesdom.Ports{
		Client: client, Cache: cm.Service(), Res: rm.Service(), Sessions: sessions,
	}))

	module.Register(cm.Name(), cm.Ports())
	module.Register(sm.Name(), sm.Ports())
	module.Register(rm.Name(), rm.Ports())
	module.Register(lm.Name(), lm.Ports())
	module.Register(bm.Name(), bm.Ports())
	module.Register(vm.Name(), vm.Ports())

	ctx := context.Background()

	if *fSession != "" {
		if err := sessions.SetCurrent(ctx, *fSession); err != nil {
			l.Fatal().Err(err).Str("session", *fSession).Msg("-session override failed")
		}
	}

	sess, ok, err := sessions.Current(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("current session lookup failed")
	}
	if !ok {
		l.Fatal().Msg("no current session watermark is set; seed the sessions table or pass -session")
	}

	if n, err := cm.Service().Purge(ctx); err != nil {
		l.Warn().Err(err).Msg("cache purge failed")
	} else if n > 0 {
		l.Info().Int64("rows", n).Msg("expired cache rows purged")
	}

	if *fPurge {
		purgeScope(ctx, l, *fStage, *fPolitician, sess.Name, bm, vm, rm)
	}

	runID := uuid.New()
	ledger := module.MustPortsOf[runsmod.Ports](lm).Ledger
	var total runsdom.RunStats
	failed := false

	runStage := func(stage string, fn func(context.Context) (runsdom.RunStats, error)) {
		if err := ledger.StartRun(ctx, runID, stage); err != nil {
			l.Warn().Err(err).Str("stage", stage).Msg("ledger start failed")
		}
		stats, err := fn(ctx)
		total.Add(stats)
		_ = ledger.FinishRun(ctx, runID, stage, stats, err)
		if err != nil {
			failed = true
			l.Error().Err(err).Str("stage", stage).Msg("stage failed")
			return
		}
		l.Info().
			Str("stage", stage).
			Int("inserted", stats.Inserted).
			Int("updated", stats.Updated).
			Int("skipped", stats.Skipped).
			Int("erred", stats.Erred).
			Msg("stage done")
	}

	billsPort := module.MustPortsOf[billsmod.Ports](bm).Sync
	votesPort := module.MustPortsOf[votesmod.Ports](vm).Sync

	if *fStage == "all" || *fStage == "bills" {
		runStage("bills", func(ctx context.Context) (runsdom.RunStats, error) {
			return billsPort.SyncSession(ctx, sess.Name)
		})
	}

	if *fStage == "all" || *fStage == "votes" {
		runStage("votes", func(ctx context.Context) (runsdom.RunStats, error) {
			if *fPolitician != "" {
				return votesPort.SyncPolitician(ctx, *fPolitician)
			}
			var stats runsdom.RunStats
			ids, err := bm.Service().BillIDs(ctx, sess.Name)
			if err != nil {
				return stats, err
			}
			for _, id := range ids {
				bs, err := votesPort.SyncBillVotes(ctx, id)
				stats.Add(bs)
				if err != nil {
					l.Warn().Err(err).Int64("bill_id", id).Msg("bill vote sync failed, run continues")
					stats.Erred++
				}
			}
			return stats, nil
		})
	}

	if *fStage == "all" || *fStage == "ballots" {
		runStage("ballots", func(ctx context.Context) (runsdom.RunStats, error) {
			return votesPort.SyncBallotFeed(ctx)
		})
	}

	fmt.Printf("run %s finished: inserted=%d updated=%d skipped=%d erred=%d\n",
		runID, total.Inserted, total.Updated, total.Skipped, total.Erred)
	if failed {
		os.Exit(1)
	}
}

// purgeScope deletes the rows the requested stage is about to rewrite
func purgeScope(
	ctx context.Context,
	l *logger.Logger,
	stage, politician, session string,
	bm *billsmod.Module,
	vm *votesmod.Module,
	rm *recmod.Module,
) {
	if politician != "" {
		leg, ok, err := rm.Service().ResolveLegislator(ctx, recdom.LegislatorRef{Slug: politician})
		if err != nil || !ok {
			l.Warn().Err(err).Str("slug", politician).Msg("purge skipped, politician unresolved")
			return
		}
		n, err := vm.Service().Purge(ctx, leg.ID)
		if err != nil {
			l.Fatal().Err(err).Msg("vote purge failed")
		}
		l.Info().Int64("rows", n).Str("slug", politician).Msg("votes purged")
		return
	}
	if stage == "all" || stage == "bills" {
		n, err := bm.Service().Purge(ctx, session)
		if err != nil {
			l.Fatal().Err(err).Msg("bill purge failed")
		}
		l.Info().Int64("rows", n).Str("session", session).Msg("bills purged")
		return
	}
	l.Warn().Str("stage", stage).Msg("-purge has no scope here, nothing deleted")
}
