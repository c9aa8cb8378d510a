package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/knockout"
	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
	"github.com/onetouchfc/one-touch-loader/internal/domain/pointspace"
	"github.com/onetouchfc/one-touch-loader/internal/domain/season"
	"github.com/onetouchfc/one-touch-loader/internal/domain/stage"
	"github.com/onetouchfc/one-touch-loader/internal/domain/standings"
	"github.com/onetouchfc/one-touch-loader/internal/domain/team"
)

func intPtr(v int) *int             { return &v }
func int64Ptr(v int64) *int64       { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func kickoff(day int) *time.Time {
	return timePtr(time.Date(2019, time.August, day, 15, 0, 0, 0, time.UTC))
}

type fixtureRepoStub struct {
	mu        sync.Mutex
	completed []fixture.Fixture
	listErr   error
	upserted  []fixture.Fixture
}

func (s *fixtureRepoStub) UpsertBatch(_ context.Context, fixtures []fixture.Fixture) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, fixtures...)
	return len(fixtures), nil
}

func (s *fixtureRepoStub) ListCompleted(_ context.Context, _, _ int64) ([]fixture.Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.completed, nil
}

type standingsRepoStub struct {
	mu       sync.Mutex
	replaced []standings.Row
	calls    int
}

func (s *standingsRepoStub) ReplaceSeason(_ context.Context, _, _ int64, rows []standings.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced = rows
	s.calls++
	return nil
}

type stageRepoStub struct {
	mu         sync.Mutex
	groupNames map[int64]string
	stages     []stage.Stage
	groups     []stage.Group
}

func (s *stageRepoStub) UpsertStages(_ context.Context, stages []stage.Stage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stages...)
	return len(stages), nil
}

func (s *stageRepoStub) UpsertGroups(_ context.Context, groups []stage.Group) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = append(s.groups, groups...)
	return len(groups), nil
}

func (s *stageRepoStub) GroupNames(_ context.Context, _ int64) (map[int64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupNames, nil
}

type knockoutRepoStub struct {
	mu   sync.Mutex
	ties []knockout.Tie
}

func (s *knockoutRepoStub) UpsertBatch(_ context.Context, ties []knockout.Tie) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ties = append(s.ties, ties...)
	return len(ties), nil
}

func (s *knockoutRepoStub) tieFor(team1, team2 int64) (knockout.Tie, bool) {
	for _, tie := range s.ties {
		if tie.Team1ID == team1 && tie.Team2ID == team2 {
			return tie, true
		}
	}
	return knockout.Tie{}, false
}

type pointsPaceRepoStub struct {
	mu      sync.Mutex
	entries []pointspace.Entry
}

func (s *pointsPaceRepoStub) UpsertBatch(_ context.Context, entries []pointspace.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
	return len(entries), nil
}

type leagueRepoStub struct {
	upserted []league.League
}

func (s *leagueRepoStub) UpsertBatch(_ context.Context, leagues []league.League) (int, error) {
	s.upserted = append(s.upserted, leagues...)
	return len(leagues), nil
}

type seasonRepoStub struct {
	mu         sync.Mutex
	upserted   []season.Season
	backfilled map[int64][2]time.Time
}

func (s *seasonRepoStub) UpsertBatch(_ context.Context, seasons []season.Season) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, seasons...)
	return len(seasons), nil
}

func (s *seasonRepoStub) BackfillDates(_ context.Context, seasonID int64, startingAt, endingAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backfilled == nil {
		s.backfilled = make(map[int64][2]time.Time)
	}
	s.backfilled[seasonID] = [2]time.Time{startingAt, endingAt}
	return nil
}

type teamRepoStub struct {
	mu       sync.Mutex
	upserted []team.Team
}

func (s *teamRepoStub) UpsertBatch(_ context.Context, teams []team.Team) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, teams...)
	return len(teams), nil
}

type providerStub struct {
	searchFn   func(ctx context.Context, name string) ([]ExternalLeague, error)
	leagueFn   func(ctx context.Context, leagueID int64) (ExternalLeague, error)
	seasonsFn  func(ctx context.Context, leagueID int64) ([]ExternalSeason, error)
	teamsFn    func(ctx context.Context, seasonID int64) ([]ExternalTeam, error)
	fixturesFn func(ctx context.Context, seasonID int64, fn func(ExternalFixture) error) error
	statesFn   func(ctx context.Context) (map[int64]string, error)
}

func (s *providerStub) SearchLeagues(ctx context.Context, name string) ([]ExternalLeague, error) {
	return s.searchFn(ctx, name)
}

func (s *providerStub) LeagueByID(ctx context.Context, leagueID int64) (ExternalLeague, error) {
	return s.leagueFn(ctx, leagueID)
}

func (s *providerStub) SeasonsByLeague(ctx context.Context, leagueID int64) ([]ExternalSeason, error) {
	return s.seasonsFn(ctx, leagueID)
}

func (s *providerStub) TeamsBySeason(ctx context.Context, seasonID int64) ([]ExternalTeam, error) {
	return s.teamsFn(ctx, seasonID)
}

func (s *providerStub) FixturesBySeason(ctx context.Context, seasonID int64, fn func(ExternalFixture) error) error {
	return s.fixturesFn(ctx, seasonID, fn)
}

func (s *providerStub) StatesMap(ctx context.Context) (map[int64]string, error) {
	if s.statesFn == nil {
		return map[int64]string{}, nil
	}
	return s.statesFn(ctx)
}

func completedFixture(id int64, home, away int64, homeScore, awayScore int, day int) fixture.Fixture {
	return fixture.Fixture{
		ID:          id,
		SeasonID:    100,
		LeagueID:    8,
		HomeTeamID:  int64Ptr(home),
		AwayTeamID:  int64Ptr(away),
		Competition: league.CompetitionLeague,
		RoundName:   "Regular Season",
		Status:      fixture.StatusPast,
		StartingAt:  kickoff(day),
		HomeScore:   intPtr(homeScore),
		AwayScore:   intPtr(awayScore),
	}
}
