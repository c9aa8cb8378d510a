package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
	"github.com/onetouchfc/one-touch-loader/internal/domain/season"
	"github.com/onetouchfc/one-touch-loader/internal/domain/stage"
	"github.com/onetouchfc/one-touch-loader/internal/domain/team"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
)

// awayGoalsLastSeason is the final start year the away-goals rule applied to
// the European cups; UEFA abolished it from 2021/22 on.
const awayGoalsLastSeason = 2020

// BootstrapConfig drives one full ingestion run.
type BootstrapConfig struct {
	LeagueNames          []string
	EuroLeagueIDs        []int64
	DomesticCupLeagueIDs []int64
	SeasonYearFrom       int
	SeasonYearTo         int
	MaxWorkers           int
}

func (c BootstrapConfig) normalized() BootstrapConfig {
	if c.SeasonYearFrom == 0 {
		c.SeasonYearFrom = 2017
	}
	if c.SeasonYearTo == 0 {
		c.SeasonYearTo = 2025
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 4
	}
	return c
}

// Result reports how many rows each step of a run persisted.
type Result struct {
	Leagues     int
	Seasons     int
	Teams       int
	Fixtures    int
	Stages      int
	Groups      int
	Standings   int
	Ties        int
	PaceEntries int
}

// BootstrapService orchestrates one end-to-end load: resolve leagues, ingest
// seasons, teams and fixtures, then rebuild the derived tables.
type BootstrapService struct {
	provider  SportDataProvider
	leagues   league.Repository
	seasons   season.Repository
	teams     team.Repository
	fixtures  fixture.Repository
	stageRepo stage.Repository
	standings *StandingsService
	knockout  *KnockoutService
	pace      *PointsPaceService
	cfg       BootstrapConfig
	logger    *logging.Logger
}

func NewBootstrapService(
	provider SportDataProvider,
	leagues league.Repository,
	seasons season.Repository,
	teams team.Repository,
	fixtures fixture.Repository,
	stageRepo stage.Repository,
	standingsService *StandingsService,
	knockoutService *KnockoutService,
	paceService *PointsPaceService,
	cfg BootstrapConfig,
	logger *logging.Logger,
) *BootstrapService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BootstrapService{
		provider:  provider,
		leagues:   leagues,
		seasons:   seasons,
		teams:     teams,
		fixtures:  fixtures,
		stageRepo: stageRepo,
		standings: standingsService,
		knockout:  knockoutService,
		pace:      paceService,
		cfg:       cfg.normalized(),
		logger:    logger,
	}
}

// Run executes the full load. The first failed step aborts the run; the
// returned Result carries whatever the earlier steps persisted, and a re-run
// converges because every write path is idempotent.
func (s *BootstrapService) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	result := &Result{}
	cache := NewRunCache()

	if err := s.ingestLeagues(ctx, cache, result); err != nil {
		return *result, fmt.Errorf("league resolution: %w", err)
	}
	seasonHasDates, err := s.ingestSeasons(ctx, cache, result)
	if err != nil {
		return *result, fmt.Errorf("season ingest: %w", err)
	}
	teamsByYear, err := s.ingestDomesticTeams(ctx, cache, result)
	if err != nil {
		return *result, fmt.Errorf("team ingest: %w", err)
	}
	if err := s.ingestFixtures(ctx, cache, seasonHasDates, teamsByYear, result); err != nil {
		return *result, fmt.Errorf("fixture ingest: %w", err)
	}
	if err := s.rebuildDerived(ctx, cache, result); err != nil {
		return *result, fmt.Errorf("derived rebuild: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap run finished",
		"duration", time.Since(started),
		"leagues", result.Leagues,
		"seasons", result.Seasons,
		"teams", result.Teams,
		"fixtures", result.Fixtures,
		"stages", result.Stages,
		"groups", result.Groups,
		"standings_rows", result.Standings,
		"knockout_ties", result.Ties,
		"pace_entries", result.PaceEntries,
	)
	return *result, nil
}

func (s *BootstrapService) ingestLeagues(ctx context.Context, cache *RunCache, result *Result) error {
	euroSet := int64Set(s.cfg.EuroLeagueIDs)
	cupSet := int64Set(s.cfg.DomesticCupLeagueIDs)

	rows := make([]league.League, 0, len(s.cfg.LeagueNames)+len(euroSet)+len(cupSet))
	put := func(ext ExternalLeague) {
		competition := league.ClassifyCompetition(ext.SubType, ext.ID, euroSet, cupSet)
		rows = append(rows, league.League{
			ID:          ext.ID,
			Name:        ext.Name,
			ImagePath:   ext.ImagePath,
			SubType:     ext.SubType,
			Competition: competition,
		})
		cache.PutLeague(ext.ID, LeagueMeta{
			Name:        ext.Name,
			ImagePath:   ext.ImagePath,
			SubType:     ext.SubType,
			Competition: competition,
		})
	}

	for _, name := range s.cfg.LeagueNames {
		candidates, err := s.provider.SearchLeagues(ctx, name)
		if err != nil {
			return fmt.Errorf("search league %q: %w", name, err)
		}
		best, ok := pickBestLeague(name, candidates)
		if !ok {
			s.logger.WarnContext(ctx, "league search returned no usable match", "query", name)
			continue
		}
		put(best)
	}

	extraIDs := make([]int64, 0, len(s.cfg.EuroLeagueIDs)+len(s.cfg.DomesticCupLeagueIDs))
	extraIDs = append(extraIDs, s.cfg.EuroLeagueIDs...)
	extraIDs = append(extraIDs, s.cfg.DomesticCupLeagueIDs...)
	for _, id := range extraIDs {
		if _, ok := cache.League(id); ok {
			continue
		}
		ext, err := s.provider.LeagueByID(ctx, id)
		if err != nil {
			return fmt.Errorf("fetch league id=%d: %w", id, err)
		}
		put(ext)
	}

	count, err := s.leagues.UpsertBatch(ctx, dedupeByID(rows, func(l league.League) int64 { return l.ID }))
	if err != nil {
		return fmt.Errorf("upsert leagues: %w", err)
	}
	result.Leagues = count
	s.logger.InfoContext(ctx, "leagues resolved", "count", count)
	return nil
}

// pickBestLeague scores search candidates: league type and domestic sub-type
// score up, playoff-style sub-types score down, a name containing the query
// scores highest. Ties keep the earliest candidate.
func pickBestLeague(query string, candidates []ExternalLeague) (ExternalLeague, bool) {
	var best ExternalLeague
	bestScore := 0
	found := false
	needle := strings.ToLower(strings.TrimSpace(query))

	for _, cand := range candidates {
		score := 0
		if strings.EqualFold(cand.Type, "league") {
			score += 2
		}
		if needle != "" && strings.Contains(strings.ToLower(cand.Name), needle) {
			score += 3
		}
		subType := strings.ToLower(cand.SubType)
		if subType == "domestic" {
			score += 2
		}
		if strings.Contains(subType, "play") {
			score -= 2
		}
		if !found || score > bestScore {
			best = cand
			bestScore = score
			found = true
		}
	}
	return best, found
}

func (s *BootstrapService) ingestSeasons(ctx context.Context, cache *RunCache, result *Result) (map[int64]bool, error) {
	hasDates := make(map[int64]bool)
	var rows []season.Season

	for _, leagueID := range cache.LeagueIDs() {
		externals, err := s.provider.SeasonsByLeague(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("fetch seasons league_id=%d: %w", leagueID, err)
		}
		for _, ext := range externals {
			candidate := season.Season{
				ID:         ext.ID,
				LeagueID:   leagueID,
				Name:       ext.Name,
				IsCurrent:  ext.IsCurrent,
				StartingAt: ext.StartingAt,
				EndingAt:   ext.EndingAt,
			}
			year, ok := candidate.StartYear()
			if !ok || year < s.cfg.SeasonYearFrom || year > s.cfg.SeasonYearTo {
				continue
			}
			rows = append(rows, candidate)
			cache.PutSeason(ext.ID, SeasonInfo{LeagueID: leagueID, Name: ext.Name, StartYear: year})
			hasDates[ext.ID] = ext.StartingAt != nil && ext.EndingAt != nil
		}
	}

	count, err := s.seasons.UpsertBatch(ctx, dedupeByID(rows, func(sn season.Season) int64 { return sn.ID }))
	if err != nil {
		return nil, fmt.Errorf("upsert seasons: %w", err)
	}
	result.Seasons = count
	s.logger.InfoContext(ctx, "seasons ingested",
		"count", count,
		"year_from", s.cfg.SeasonYearFrom,
		"year_to", s.cfg.SeasonYearTo,
	)
	return hasDates, nil
}

// ingestDomesticTeams loads squads of the domestic league seasons and builds
// the per-start-year team sets the domestic cup filter needs.
func (s *BootstrapService) ingestDomesticTeams(ctx context.Context, cache *RunCache, result *Result) (map[int]map[int64]struct{}, error) {
	type unit struct {
		seasonID int64
		year     int
	}
	var units []unit
	for _, leagueID := range cache.LeagueIDs() {
		meta, _ := cache.League(leagueID)
		if meta.Competition != league.CompetitionLeague {
			continue
		}
		for _, seasonID := range cache.SeasonIDsByLeague(leagueID) {
			info, _ := cache.Season(seasonID)
			units = append(units, unit{seasonID: seasonID, year: info.StartYear})
		}
	}

	byYear := make(map[int]map[int64]struct{})
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		rows     []team.Team
	)
	workers, err := ants.NewPool(s.cfg.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("start team worker pool: %w", err)
	}
	defer workers.Release()

	for _, u := range units {
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			externals, fetchErr := s.provider.TeamsBySeason(ctx, u.seasonID)

			mu.Lock()
			defer mu.Unlock()
			if fetchErr != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch teams season_id=%d: %w", u.seasonID, fetchErr)
				}
				return
			}
			yearSet := byYear[u.year]
			if yearSet == nil {
				yearSet = make(map[int64]struct{}, len(externals))
				byYear[u.year] = yearSet
			}
			for _, ext := range externals {
				yearSet[ext.ID] = struct{}{}
				rows = append(rows, team.Team{
					ID:        ext.ID,
					Name:      ext.Name,
					ShortCode: ext.ShortCode,
					ImagePath: ext.ImagePath,
				})
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit team fetch season_id=%d: %w", u.seasonID, submitErr)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	count, err := s.teams.UpsertBatch(ctx, dedupeByID(rows, func(t team.Team) int64 { return t.ID }))
	if err != nil {
		return nil, fmt.Errorf("upsert teams: %w", err)
	}
	result.Teams = count
	s.logger.InfoContext(ctx, "domestic squads ingested", "count", count, "seasons", len(units))
	return byYear, nil
}

type seasonIngest struct {
	fixtures int
	teams    int
	stages   int
	groups   int
}

func (s *BootstrapService) ingestFixtures(
	ctx context.Context,
	cache *RunCache,
	seasonHasDates map[int64]bool,
	teamsByYear map[int]map[int64]struct{},
	result *Result,
) error {
	type unit struct {
		leagueID int64
		seasonID int64
	}
	var units []unit
	for _, leagueID := range cache.LeagueIDs() {
		for _, seasonID := range cache.SeasonIDsByLeague(leagueID) {
			units = append(units, unit{leagueID: leagueID, seasonID: seasonID})
		}
	}

	statesMap, err := s.provider.StatesMap(ctx)
	if err != nil {
		return fmt.Errorf("fetch fixture states: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	workers, err := ants.NewPool(s.cfg.MaxWorkers)
	if err != nil {
		return fmt.Errorf("start fixture worker pool: %w", err)
	}
	defer workers.Release()

	for _, u := range units {
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			ingested, ingestErr := s.ingestSeasonFixtures(ctx, cache, u.leagueID, u.seasonID, seasonHasDates[u.seasonID], teamsByYear, statesMap)

			mu.Lock()
			defer mu.Unlock()
			if ingestErr != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("ingest fixtures league_id=%d season_id=%d: %w", u.leagueID, u.seasonID, ingestErr)
				}
				return
			}
			result.Fixtures += ingested.fixtures
			result.Teams += ingested.teams
			result.Stages += ingested.stages
			result.Groups += ingested.groups
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit fixture ingest season_id=%d: %w", u.seasonID, submitErr)
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	s.logger.InfoContext(ctx, "fixtures ingested", "count", result.Fixtures, "seasons", len(units))
	return nil
}

func (s *BootstrapService) ingestSeasonFixtures(
	ctx context.Context,
	cache *RunCache,
	leagueID, seasonID int64,
	providerHasDates bool,
	teamsByYear map[int]map[int64]struct{},
	statesMap map[int64]string,
) (seasonIngest, error) {
	meta, ok := cache.League(leagueID)
	if !ok {
		return seasonIngest{}, fmt.Errorf("%w: league id=%d missing from run cache", ErrNotFound, leagueID)
	}
	info, ok := cache.Season(seasonID)
	if !ok {
		return seasonIngest{}, fmt.Errorf("%w: season id=%d missing from run cache", ErrNotFound, seasonID)
	}

	var allowed map[int64]struct{}
	if meta.Competition == league.CompetitionDomesticCup {
		allowed = teamsByYear[info.StartYear]
	}

	var (
		fixtures []fixture.Fixture
		teams    []team.Team
		stages   []stage.Stage
		groups   []stage.Group
		minAt    *time.Time
		maxAt    *time.Time
	)
	walkErr := s.provider.FixturesBySeason(ctx, seasonID, func(ext ExternalFixture) error {
		if allowed != nil && !involvesAllowedTeam(ext, allowed) {
			return nil
		}

		stateCode := ext.StateCode
		if stateCode == "" && ext.StateID != nil {
			stateCode = statesMap[*ext.StateID]
		}
		fx := fixture.Fixture{
			ID:               ext.ID,
			SeasonID:         seasonID,
			LeagueID:         leagueID,
			HomeTeamID:       ext.HomeTeamID,
			AwayTeamID:       ext.AwayTeamID,
			Competition:      meta.Competition,
			RoundName:        ext.RoundName,
			LegNumber:        ext.LegNumber,
			Status:           fixture.ClassifyState(stateCode),
			StartingAt:       ext.StartingAt,
			HomeScore:        ext.HomeScore,
			AwayScore:        ext.AwayScore,
			HomePenaltyScore: ext.HomePenaltyScore,
			AwayPenaltyScore: ext.AwayPenaltyScore,
		}
		if ext.Stage != nil {
			stageID, typeID := ext.Stage.ID, ext.Stage.TypeID
			fx.StageID = &stageID
			fx.StageTypeID = &typeID
			stages = append(stages, stage.Stage{
				ID:       stageID,
				LeagueID: leagueID,
				SeasonID: seasonID,
				TypeID:   typeID,
				Name:     ext.Stage.Name,
			})
		}
		if ext.Group != nil {
			groupID := ext.Group.ID
			fx.GroupID = &groupID
			groupStageID := ext.Group.StageID
			if groupStageID == 0 && ext.Stage != nil {
				groupStageID = ext.Stage.ID
			}
			groups = append(groups, stage.Group{
				ID:       groupID,
				StageID:  groupStageID,
				LeagueID: leagueID,
				SeasonID: seasonID,
				Name:     ext.Group.Name,
			})
		}
		for _, participant := range ext.Participants {
			teams = append(teams, team.Team{
				ID:        participant.ID,
				Name:      participant.Name,
				ShortCode: participant.ShortCode,
				ImagePath: participant.ImagePath,
			})
		}
		if ext.StartingAt != nil {
			at := *ext.StartingAt
			if minAt == nil || at.Before(*minAt) {
				minAt = &at
			}
			if maxAt == nil || at.After(*maxAt) {
				maxAt = &at
			}
		}

		fixtures = append(fixtures, fx)
		return nil
	})
	if walkErr != nil {
		return seasonIngest{}, fmt.Errorf("stream fixtures: %w", walkErr)
	}

	var ingested seasonIngest
	var err error
	if ingested.teams, err = s.teams.UpsertBatch(ctx, dedupeByID(teams, func(t team.Team) int64 { return t.ID })); err != nil {
		return ingested, fmt.Errorf("upsert participant teams: %w", err)
	}
	if ingested.stages, err = s.stageRepo.UpsertStages(ctx, dedupeByID(stages, func(st stage.Stage) int64 { return st.ID })); err != nil {
		return ingested, fmt.Errorf("upsert stages: %w", err)
	}
	if ingested.groups, err = s.stageRepo.UpsertGroups(ctx, dedupeByID(groups, func(g stage.Group) int64 { return g.ID })); err != nil {
		return ingested, fmt.Errorf("upsert stage groups: %w", err)
	}
	if ingested.fixtures, err = s.fixtures.UpsertBatch(ctx, fixtures); err != nil {
		return ingested, fmt.Errorf("upsert fixtures: %w", err)
	}

	if !providerHasDates && minAt != nil && maxAt != nil {
		if err := s.seasons.BackfillDates(ctx, seasonID, *minAt, *maxAt); err != nil {
			return ingested, fmt.Errorf("backfill season dates: %w", err)
		}
	}

	return ingested, nil
}

func involvesAllowedTeam(ext ExternalFixture, allowed map[int64]struct{}) bool {
	if ext.HomeTeamID != nil {
		if _, ok := allowed[*ext.HomeTeamID]; ok {
			return true
		}
	}
	if ext.AwayTeamID != nil {
		if _, ok := allowed[*ext.AwayTeamID]; ok {
			return true
		}
	}
	for _, participant := range ext.Participants {
		if _, ok := allowed[participant.ID]; ok {
			return true
		}
	}
	return false
}

func (s *BootstrapService) rebuildDerived(ctx context.Context, cache *RunCache, result *Result) error {
	var mu sync.Mutex
	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.cfg.MaxWorkers)

	for _, leagueID := range cache.LeagueIDs() {
		meta, _ := cache.League(leagueID)
		for _, seasonID := range cache.SeasonIDsByLeague(leagueID) {
			info, _ := cache.Season(seasonID)
			workers.Go(func(ctx context.Context) error {
				var standingsRows, ties, paceEntries int
				var err error

				switch meta.Competition {
				case league.CompetitionLeague:
					if standingsRows, err = s.standings.RebuildSeason(ctx, leagueID, seasonID); err != nil {
						return fmt.Errorf("standings league_id=%d season_id=%d: %w", leagueID, seasonID, err)
					}
					if paceEntries, err = s.pace.RebuildSeason(ctx, leagueID, seasonID); err != nil {
						return fmt.Errorf("points pace league_id=%d season_id=%d: %w", leagueID, seasonID, err)
					}
				case league.CompetitionEurope:
					if standingsRows, err = s.standings.RebuildSeason(ctx, leagueID, seasonID); err != nil {
						return fmt.Errorf("standings league_id=%d season_id=%d: %w", leagueID, seasonID, err)
					}
					awayGoals := info.StartYear <= awayGoalsLastSeason
					if ties, err = s.knockout.ResolveSeason(ctx, leagueID, seasonID, awayGoals); err != nil {
						return fmt.Errorf("knockout league_id=%d season_id=%d: %w", leagueID, seasonID, err)
					}
				case league.CompetitionDomesticCup:
					if ties, err = s.knockout.ResolveSeason(ctx, leagueID, seasonID, false); err != nil {
						return fmt.Errorf("knockout league_id=%d season_id=%d: %w", leagueID, seasonID, err)
					}
				}

				mu.Lock()
				result.Standings += standingsRows
				result.Ties += ties
				result.PaceEntries += paceEntries
				mu.Unlock()
				return nil
			})
		}
	}

	if err := workers.Wait(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "derived tables rebuilt",
		"standings_rows", result.Standings,
		"knockout_ties", result.Ties,
		"pace_entries", result.PaceEntries,
	)
	return nil
}

func int64Set(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// dedupeByID keeps the first row per id so multi-row upserts never touch the
// same key twice inside one statement.
func dedupeByID[T any](items []T, id func(T) int64) []T {
	seen := make(map[int64]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		key := id(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
