package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/onetouchfc/one-touch-loader/external/sportmonks"
	"github.com/onetouchfc/one-touch-loader/internal/config"
	"github.com/onetouchfc/one-touch-loader/internal/infrastructure/repository/postgres"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
	"github.com/onetouchfc/one-touch-loader/internal/platform/resilience"
	"github.com/onetouchfc/one-touch-loader/internal/usecase"
)

// Run wires the loader and executes one full ingestion pass.
func Run(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.Result, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return usecase.Result{}, fmt.Errorf("connect database %q: %w", dbNameFromURL(cfg.DBURL), err)
	}
	defer func() {
		_ = db.Close()
	}()

	provider := sportmonks.NewClient(sportmonks.ClientConfig{
		BaseURL:    cfg.SportMonksBaseURL,
		Token:      cfg.SportMonksToken,
		Timeout:    cfg.SportMonksTimeout,
		MaxRetries: cfg.SportMonksMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})

	leagueRepo := postgres.NewLeagueRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)
	stageRepo := postgres.NewStageRepository(db)
	standingsRepo := postgres.NewStandingsRepository(db)
	knockoutRepo := postgres.NewKnockoutRepository(db)
	paceRepo := postgres.NewPointsPaceRepository(db)

	bootstrap := usecase.NewBootstrapService(
		provider,
		leagueRepo,
		seasonRepo,
		teamRepo,
		fixtureRepo,
		stageRepo,
		usecase.NewStandingsService(fixtureRepo, stageRepo, standingsRepo, logger),
		usecase.NewKnockoutService(fixtureRepo, knockoutRepo, logger),
		usecase.NewPointsPaceService(fixtureRepo, paceRepo, logger),
		usecase.BootstrapConfig{
			LeagueNames:          cfg.LeagueNames,
			EuroLeagueIDs:        cfg.EuroLeagueIDs,
			DomesticCupLeagueIDs: cfg.DomesticCupLeagueIDs,
			SeasonYearFrom:       cfg.SeasonYearFrom,
			SeasonYearTo:         cfg.SeasonYearTo,
			MaxWorkers:           cfg.MaxWorkers,
		},
		logger,
	)

	return bootstrap.Run(ctx)
}
