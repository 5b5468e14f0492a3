package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-sync/external/apifootball"
	"github.com/riskibarqy/football-sync/internal/config"
	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/riskibarqy/football-sync/internal/domain/synccursor"
	"github.com/riskibarqy/football-sync/internal/domain/team"
	cacherepo "github.com/riskibarqy/football-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-sync/internal/infrastructure/statefile"
	"github.com/riskibarqy/football-sync/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/football-sync/internal/platform/cache"
	idgen "github.com/riskibarqy/football-sync/internal/platform/id"
	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"github.com/riskibarqy/football-sync/internal/platform/resilience"
	"github.com/riskibarqy/football-sync/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const playerIDPrefix = "ply"

// App holds the wired services shared by the API server and the sync CLI.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB

	PlayerService *usecase.PlayerService
	TeamService   *usecase.TeamService
	// SyncService is nil when no provider key is configured.
	SyncService *usecase.SyncService
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.StoreBackend == config.StoreBackendPostgres || cfg.SyncCursorBackend == config.CursorBackendPostgres {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
	}

	players, teams := a.buildRepositories()
	a.PlayerService = usecase.NewPlayerService(players)
	a.TeamService = usecase.NewTeamService(teams)

	if err := cfg.RequireSportsAPI(); err != nil {
		logger.Warn("sync disabled", "reason", err.Error())
		return a, nil
	}

	cursorStore := a.buildCursorStore()
	a.SyncService = buildSyncService(cfg, logger, players, teams, cursorStore)
	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.PlayerService, a.TeamService, a.SyncService, a.logger)
	router := httpapi.NewRouter(handler, a.logger, a.cfg.SwaggerEnabled, a.cfg.CORSOrigins, a.cfg.InternalJobToken, a.cfg.InternalJobTimeout)

	server := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func (a *App) buildRepositories() (player.Repository, team.Repository) {
	var (
		players player.Repository
		teams   team.Repository
	)
	switch a.cfg.StoreBackend {
	case config.StoreBackendPostgres:
		players = postgres.NewPlayerRepository(a.db)
		teams = postgres.NewTeamRepository(a.db)
	default:
		players = memory.NewPlayerRepository(memory.SeedPlayers())
		teams = memory.NewTeamRepository(memory.SeedTeams())
	}

	if !a.cfg.CacheEnabled {
		return players, teams
	}

	store := basecache.NewStore(a.cfg.CacheTTL)
	return cacherepo.NewPlayerRepository(players, store), cacherepo.NewTeamRepository(teams, store)
}

func (a *App) buildCursorStore() synccursor.Store {
	if a.cfg.SyncCursorBackend == config.CursorBackendPostgres {
		return postgres.NewSyncCursorRepository(a.db)
	}
	return statefile.NewCursorStore(a.cfg.SyncCursorPath)
}

func buildSyncService(
	cfg config.Config,
	logger *logging.Logger,
	players player.Repository,
	teams team.Repository,
	cursorStore synccursor.Store,
) *usecase.SyncService {
	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.SportsAPIBaseURL,
		APIKey:     cfg.SportsAPIKey,
		Host:       cfg.SportsAPIHost,
		Timeout:    cfg.SportsAPITimeout,
		MaxRetries: cfg.SportsAPIMaxRetries,
		Logger:     logger.Named("apifootball"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsAPICircuitEnabled,
			FailureThreshold: cfg.SportsAPICircuitFailureCount,
			OpenTimeout:      cfg.SportsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsAPICircuitHalfOpenMaxReq,
		},
	})

	units := make([]usecase.Unit, 0, len(cfg.SyncLeagues))
	for _, league := range cfg.SyncLeagues {
		units = append(units, usecase.Unit{LeagueID: league.ID, Name: league.Name})
	}

	syncLogger := logger.Named("sync")
	pacer := resilience.NewPacer()
	fetcher := usecase.NewPaginatedFetcher(provider, pacer, cfg.SyncPageDelay, cfg.SyncMaxPages, syncLogger)
	engine := usecase.NewReconciliationEngine(players, idgen.NewPrefixedGenerator(playerIDPrefix), cfg.SyncGenericTeamMarkers)
	cursor := usecase.NewScheduleCursor(cursorStore, len(units), syncLogger)

	return usecase.NewSyncService(provider, fetcher, usecase.NewRecordMapper(), engine, cursor, teams, pacer, usecase.SyncConfig{
		Season:    cfg.SyncSeason,
		Units:     units,
		TeamDelay: cfg.SyncTeamDelay,
		UnitDelay: cfg.SyncUnitDelay,
	}, syncLogger)
}
