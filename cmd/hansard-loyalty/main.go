// Command hansard-loyalty rebuilds party loyalty statistics, either for
// a single legislator or a full sweep over everyone with votes on record
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"hansard/internal/core/version"
	"hansard/internal/modkit"
	"hansard/internal/modkit/module"
	"hansard/internal/modkit/repokit"
	"hansard/internal/platform/config"
	"hansard/internal/platform/logger"
	"hansard/internal/platform/store"

	loyaltymod "hansard/internal/services/loyalty/module"
	runsdom "hansard/internal/services/runs/domain"
	runsmod "hansard/internal/services/runs/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()
	bi := version.Info("hansard-loyalty")
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("starting")

	st, err := store.Open(context.Background(), store.Config{
		AppName: "hansard-loyalty",
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

	fLegislator := flag.Int64("legislator", 0, "recompute a single legislator id instead of sweeping")
	flag.Parse()

	var pg repokit.TxRunner = st.PG
	if d := pgCfg.MayDuration("TX_TIMEOUT", 0); d > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds())
		pg = repokit.WithBeginHooks(pg, func(ctx context.Context, q repokit.Queryer) error {
			_, err := q.Exec(ctx, stmt)
			return err
		})
	}
	deps := modkit.Deps{Cfg: root, PG: pg, Log: *l}

	lm := loyaltymod.New(deps)
	rm := runsmod.New(deps)
	module.Register(lm.Name(), lm.Ports())
	module.Register(rm.Name(), rm.Ports())

	ctx := context.Background()
	calc := module.MustPortsOf[loyaltymod.Ports](lm).Calculator
	ledger := module.MustPortsOf[runsmod.Ports](rm).Ledger

	runID := uuid.New()
	if err := ledger.StartRun(ctx, runID, "loyalty"); err != nil {
		l.Warn().Err(err).Msg("ledger start failed")
	}

	var stats runsdom.RunStats
	var runErr error
	if *fLegislator > 0 {
		if _, runErr = calc.Recompute(ctx, *fLegislator); runErr == nil {
			stats.Updated = 1
		}
	} else {
		var n int
		if n, runErr = calc.RecomputeAll(ctx); runErr == nil {
			stats.Updated = n
		}
	}

	_ = ledger.FinishRun(ctx, runID, "loyalty", stats, runErr)
	if runErr != nil {
		l.Error().Err(runErr).Msg("loyalty recompute failed")
		os.Exit(1)
	}

	fmt.Printf("run %s finished: %d loyalty rows written\n", runID, stats.Updated)
}
