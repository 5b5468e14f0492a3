package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/football-sync/internal/domain/team"
	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

// Unit is one league scheduled for a sync pass.
type Unit struct {
	LeagueID int64
	Name     string
}

type SyncConfig struct {
	Season    int
	Units     []Unit
	TeamDelay time.Duration
	UnitDelay time.Duration
}

// RunReport counts what one sync pass did.
type RunReport struct {
	UnitIndex int
	Unit      Unit
	Teams     int
	Fetched   int
	Inserted  int
	Updated   int
	Skipped   int
	Unmapped  int
	Failed    int
	Partial   bool
	StartedAt time.Time
	EndedAt   time.Time
}

func (r *RunReport) add(other RunReport) {
	r.Teams += other.Teams
	r.Fetched += other.Fetched
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Unmapped += other.Unmapped
	r.Failed += other.Failed
	r.Partial = r.Partial || other.Partial
}

type UnitFailure struct {
	Unit  Unit
	Error string
}

type LoadReport struct {
	Units     []RunReport
	Failures  []UnitFailure
	StartedAt time.Time
	EndedAt   time.Time
}

type CursorStatus struct {
	Found     bool
	LastIndex int
	LastRun   time.Time
	NextIndex int
	NextUnit  Unit
}

type SyncService struct {
	provider SportsProvider
	fetcher  *PaginatedFetcher
	mapper   *RecordMapper
	engine   *ReconciliationEngine
	cursor   *ScheduleCursor
	teams    team.Repository
	limiter  RateLimiter
	cfg      SyncConfig
	logger   *logging.Logger
	now      func() time.Time

	runMu sync.Mutex
}

func NewSyncService(
	provider SportsProvider,
	fetcher *PaginatedFetcher,
	mapper *RecordMapper,
	engine *ReconciliationEngine,
	cursor *ScheduleCursor,
	teams team.Repository,
	limiter RateLimiter,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		provider: provider,
		fetcher:  fetcher,
		mapper:   mapper,
		engine:   engine,
		cursor:   cursor,
		teams:    teams,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SyncService) Units() []Unit {
	out := make([]Unit, len(s.cfg.Units))
	copy(out, s.cfg.Units)
	return out
}

// RunScheduled syncs the next unit in round-robin order and advances the cursor
// only when the unit finished without a fatal error.
func (s *SyncService) RunScheduled(ctx context.Context) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RunScheduled")
	defer span.End()

	if len(s.cfg.Units) == 0 {
		return RunReport{}, fmt.Errorf("%w: no sync units configured", ErrInvalidInput)
	}
	if !s.runMu.TryLock() {
		return RunReport{}, ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	release, err := s.cursor.Lock(ctx)
	if err != nil {
		return RunReport{}, err
	}
	defer release()

	index := s.cursor.Next(ctx)
	unit := s.cfg.Units[index]
	span.SetAttributes(attribute.Int("sync.unit_index", index), attribute.Int64("sync.league_id", unit.LeagueID))

	s.logger.InfoContext(ctx, "scheduled sync started",
		"unit_index", index,
		"league_id", unit.LeagueID,
		"league", unit.Name,
		"season", s.cfg.Season,
	)

	report, err := s.syncUnit(ctx, unit)
	report.UnitIndex = index
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled sync aborted, cursor not advanced",
			"unit_index", index,
			"league_id", unit.LeagueID,
			"error", err,
		)
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if err := s.cursor.Commit(ctx, index); err != nil {
		return report, err
	}

	s.logger.InfoContext(ctx, "scheduled sync finished",
		"unit_index", index,
		"league_id", unit.LeagueID,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"partial", report.Partial,
	)
	return report, nil
}

// SyncUnit syncs one league outside the schedule; the cursor is left alone.
func (s *SyncService) SyncUnit(ctx context.Context, unit Unit) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncUnit")
	defer span.End()

	if unit.LeagueID <= 0 {
		return RunReport{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if !s.runMu.TryLock() {
		return RunReport{}, ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	return s.syncUnit(ctx, unit)
}

// InitialLoad walks every configured unit once. A unit's fatal error is
// recorded and the load moves on.
func (s *SyncService) InitialLoad(ctx context.Context) (LoadReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.InitialLoad")
	defer span.End()

	if !s.runMu.TryLock() {
		return LoadReport{}, ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	out := LoadReport{StartedAt: s.now().UTC()}
	for i, unit := range s.cfg.Units {
		if i > 0 {
			if err := s.limiter.Wait(ctx, s.cfg.UnitDelay); err != nil {
				out.EndedAt = s.now().UTC()
				return out, err
			}
		}

		report, err := s.syncUnit(ctx, unit)
		report.UnitIndex = i
		out.Units = append(out.Units, report)
		if err != nil {
			if ctx.Err() != nil {
				out.EndedAt = s.now().UTC()
				return out, ctx.Err()
			}
			s.logger.ErrorContext(ctx, "initial load unit failed, continuing",
				"league_id", unit.LeagueID,
				"error", err,
			)
			out.Failures = append(out.Failures, UnitFailure{Unit: unit, Error: err.Error()})
		}
	}
	out.EndedAt = s.now().UTC()

	s.logger.InfoContext(ctx, "initial load finished",
		"units", len(out.Units),
		"failures", len(out.Failures),
	)
	return out, nil
}

// SyncTopScorers reconciles a league's top-scorer feed in priority mode.
func (s *SyncService) SyncTopScorers(ctx context.Context, leagueID int64) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTopScorers")
	defer span.End()

	if leagueID <= 0 {
		return RunReport{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if !s.runMu.TryLock() {
		return RunReport{}, ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	report := RunReport{Unit: s.unitFor(leagueID), StartedAt: s.now().UTC()}
	result := s.fetcher.FetchAll(ctx, ResourceTopScorers, map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(s.cfg.Season),
	})
	report.add(s.applyRecords(ctx, result, leagueID, ModePriority, false))
	report.EndedAt = s.now().UTC()

	s.logger.InfoContext(ctx, "top scorers sync finished",
		"league_id", leagueID,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"partial", report.Partial,
	)
	return report, ctx.Err()
}

// SyncNationalTeam reconciles a national team squad in priority mode.
func (s *SyncService) SyncNationalTeam(ctx context.Context, teamID int64) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncNationalTeam")
	defer span.End()

	if teamID <= 0 {
		return RunReport{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	if !s.runMu.TryLock() {
		return RunReport{}, ErrSyncInProgress
	}
	defer s.runMu.Unlock()

	report := RunReport{StartedAt: s.now().UTC(), Teams: 1}
	result := s.fetcher.FetchAll(ctx, ResourceSquads, map[string]string{
		"team": strconv.FormatInt(teamID, 10),
	})
	report.add(s.applyRecords(ctx, result, 0, ModePriority, true))
	report.EndedAt = s.now().UTC()

	s.logger.InfoContext(ctx, "national team sync finished",
		"team_id", teamID,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"partial", report.Partial,
	)
	return report, ctx.Err()
}

func (s *SyncService) CursorState(ctx context.Context) (CursorStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.CursorState")
	defer span.End()

	state, found, err := s.cursor.State(ctx)
	if err != nil {
		return CursorStatus{}, err
	}

	out := CursorStatus{Found: found, LastIndex: state.LastIndex, LastRun: state.LastRun}
	if len(s.cfg.Units) > 0 {
		out.NextIndex = s.cursor.Next(ctx)
		out.NextUnit = s.cfg.Units[out.NextIndex]
	}
	return out, nil
}

func (s *SyncService) syncUnit(ctx context.Context, unit Unit) (RunReport, error) {
	report := RunReport{Unit: unit, StartedAt: s.now().UTC()}

	teams, err := s.provider.FetchTeams(ctx, unit.LeagueID, s.cfg.Season)
	if err != nil {
		report.EndedAt = s.now().UTC()
		return report, fmt.Errorf("%w: fetch teams league_id=%d season=%d: %w", ErrFatalSync, unit.LeagueID, s.cfg.Season, err)
	}
	if len(teams) == 0 {
		report.EndedAt = s.now().UTC()
		return report, fmt.Errorf("%w: no teams for league_id=%d season=%d", ErrFatalSync, unit.LeagueID, s.cfg.Season)
	}
	report.Teams = len(teams)

	for _, item := range teams {
		s.upsertTeam(ctx, unit, item)
	}

	for _, item := range teams {
		if err := s.limiter.Wait(ctx, s.cfg.TeamDelay); err != nil {
			report.Partial = true
			report.EndedAt = s.now().UTC()
			return report, err
		}

		result := s.fetcher.FetchAll(ctx, ResourcePlayers, map[string]string{
			"team":   strconv.FormatInt(item.ExternalID, 10),
			"season": strconv.Itoa(s.cfg.Season),
		})
		report.add(s.applyRecords(ctx, result, unit.LeagueID, ModeRegular, false))

		s.logger.DebugContext(ctx, "team players synced",
			"league_id", unit.LeagueID,
			"team_id", item.ExternalID,
			"team", item.Name,
			"records", len(result.Records),
			"stop", string(result.Stop),
		)
	}

	report.EndedAt = s.now().UTC()
	return report, nil
}

func (s *SyncService) upsertTeam(ctx context.Context, unit Unit, item ExternalTeam) {
	record := team.Team{
		ExternalID: item.ExternalID,
		LeagueID:   unit.LeagueID,
		Season:     s.cfg.Season,
		Name:       strings.TrimSpace(item.Name),
		Code:       strings.TrimSpace(item.Code),
		Country:    strings.TrimSpace(item.Country),
		National:   item.National,
		LogoURL:    strings.TrimSpace(item.LogoURL),
		UpdatedAt:  s.now().UTC(),
	}
	if err := record.Validate(); err != nil {
		s.logger.WarnContext(ctx, "skip invalid team", "team_id", item.ExternalID, "error", err)
		return
	}
	if err := s.teams.Upsert(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "upsert team failed",
			"league_id", unit.LeagueID,
			"team_id", item.ExternalID,
			"error", err,
		)
	}
}

// applyRecords maps and reconciles every fetched record. One bad record never
// stops the batch.
func (s *SyncService) applyRecords(ctx context.Context, result FetchResult, leagueID int64, mode ReconcileMode, national bool) RunReport {
	report := RunReport{Fetched: len(result.Records), Partial: !result.Complete}

	for _, raw := range result.Records {
		if ctx.Err() != nil {
			report.Partial = true
			return report
		}

		normalized, ok := s.mapper.Map(raw, leagueID)
		if !ok {
			report.Unmapped++
			continue
		}
		normalized.National = national

		var (
			action Action
			err    error
			pc     panics.Catcher
		)
		pc.Try(func() {
			action, err = s.engine.Reconcile(ctx, normalized, mode)
		})
		if recovered := pc.Recovered(); recovered != nil {
			err = recovered.AsError()
		}
		if err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "reconcile player failed",
				"external_id", normalized.ExternalID,
				"mode", string(mode),
				"error", err,
			)
			continue
		}

		switch action {
		case ActionInsert:
			report.Inserted++
		case ActionUpdate:
			report.Updated++
		default:
			report.Skipped++
		}
	}
	return report
}

func (s *SyncService) unitFor(leagueID int64) Unit {
	for _, unit := range s.cfg.Units {
		if unit.LeagueID == leagueID {
			return unit
		}
	}
	return Unit{LeagueID: leagueID}
}
