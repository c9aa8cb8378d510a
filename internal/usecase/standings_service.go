package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/knockout"
	"github.com/onetouchfc/one-touch-loader/internal/domain/stage"
	"github.com/onetouchfc/one-touch-loader/internal/domain/standings"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
)

const formLength = 5

// StandingsService recomputes standings tables for a season from its
// completed fixtures.
type StandingsService struct {
	fixtures fixture.Repository
	stages   stage.Repository
	tables   standings.Repository
	logger   *logging.Logger
}

func NewStandingsService(
	fixtures fixture.Repository,
	stages stage.Repository,
	tables standings.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		fixtures: fixtures,
		stages:   stages,
		tables:   tables,
		logger:   logger,
	}
}

type tableKey struct {
	phase standings.Phase
	group string
}

type teamTally struct {
	teamID  int64
	played  int
	won     int
	draw    int
	lost    int
	gf      int
	ga      int
	results []byte
}

func (t *teamTally) points() int {
	return 3*t.won + t.draw
}

// RebuildSeason aggregates every completed fixture of the season into one
// table per phase and group, then replaces the stored rows wholesale.
// Knockout-round fixtures are left to the tie resolver.
func (s *StandingsService) RebuildSeason(ctx context.Context, leagueID, seasonID int64) (int, error) {
	if leagueID <= 0 || seasonID <= 0 {
		return 0, fmt.Errorf("%w: league and season ids must be greater than zero", ErrInvalidInput)
	}

	completed, err := s.fixtures.ListCompleted(ctx, leagueID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("load completed fixtures: %w", err)
	}
	groupNames, err := s.stages.GroupNames(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("load stage group names: %w", err)
	}

	tallies := make(map[tableKey]map[int64]*teamTally)
	for _, fx := range completed {
		if !fx.Completed() || knockout.IsKnockoutRound(fx.RoundName) {
			continue
		}
		key := classifyTable(fx, groupNames)
		table := tallies[key]
		if table == nil {
			table = make(map[int64]*teamTally)
			tallies[key] = table
		}
		recordResult(table, fx)
	}

	rows := make([]standings.Row, 0, len(completed))
	for key, table := range tallies {
		rows = append(rows, rankTable(leagueID, seasonID, key, table)...)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Phase != rows[j].Phase {
			return rows[i].Phase < rows[j].Phase
		}
		if rows[i].GroupName != rows[j].GroupName {
			return rows[i].GroupName < rows[j].GroupName
		}
		return rows[i].Position < rows[j].Position
	})

	if err := s.tables.ReplaceSeason(ctx, leagueID, seasonID, rows); err != nil {
		return 0, fmt.Errorf("replace standings: %w", err)
	}

	s.logger.InfoContext(ctx, "standings rebuilt",
		"league_id", leagueID,
		"season_id", seasonID,
		"rows", len(rows),
	)
	return len(rows), nil
}

// classifyTable splits the season into phases. The group-stage type marker
// together with a group id yields one table per group; the marker without a
// group is the single-table league phase of the newer European format.
func classifyTable(fx fixture.Fixture, groupNames map[int64]string) tableKey {
	if fx.StageTypeID != nil && *fx.StageTypeID == stage.TypeGroup {
		if fx.GroupID != nil {
			name := groupNames[*fx.GroupID]
			if name == "" {
				name = fmt.Sprintf("Group %d", *fx.GroupID)
			}
			return tableKey{phase: standings.PhaseGroup, group: name}
		}
		return tableKey{phase: standings.PhaseLeaguePhase}
	}
	return tableKey{phase: standings.PhaseLeague}
}

func recordResult(table map[int64]*teamTally, fx fixture.Fixture) {
	home := tallyFor(table, *fx.HomeTeamID)
	away := tallyFor(table, *fx.AwayTeamID)
	homeScore, awayScore := *fx.HomeScore, *fx.AwayScore

	home.played++
	away.played++
	home.gf += homeScore
	home.ga += awayScore
	away.gf += awayScore
	away.ga += homeScore

	switch {
	case homeScore > awayScore:
		home.won++
		away.lost++
		home.results = append(home.results, 'W')
		away.results = append(away.results, 'L')
	case homeScore < awayScore:
		home.lost++
		away.won++
		home.results = append(home.results, 'L')
		away.results = append(away.results, 'W')
	default:
		home.draw++
		away.draw++
		home.results = append(home.results, 'D')
		away.results = append(away.results, 'D')
	}
}

func tallyFor(table map[int64]*teamTally, teamID int64) *teamTally {
	tally := table[teamID]
	if tally == nil {
		tally = &teamTally{teamID: teamID}
		table[teamID] = tally
	}
	return tally
}

// orderTallies applies the tie-break chain: points, goal difference, goals
// for, then team id.
func orderTallies(table map[int64]*teamTally) []*teamTally {
	ordered := make([]*teamTally, 0, len(table))
	for _, tally := range table {
		ordered = append(ordered, tally)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.points() != b.points() {
			return a.points() > b.points()
		}
		if a.gf-a.ga != b.gf-b.ga {
			return a.gf-a.ga > b.gf-b.ga
		}
		if a.gf != b.gf {
			return a.gf > b.gf
		}
		return a.teamID < b.teamID
	})
	return ordered
}

func rankTable(leagueID, seasonID int64, key tableKey, table map[int64]*teamTally) []standings.Row {
	ordered := orderTallies(table)

	rows := make([]standings.Row, 0, len(ordered))
	for position, tally := range ordered {
		rows = append(rows, standings.Row{
			LeagueID:       leagueID,
			SeasonID:       seasonID,
			Phase:          key.phase,
			GroupName:      key.group,
			TeamID:         tally.teamID,
			Position:       position + 1,
			Played:         tally.played,
			Won:            tally.won,
			Draw:           tally.draw,
			Lost:           tally.lost,
			GoalsFor:       tally.gf,
			GoalsAgainst:   tally.ga,
			GoalDifference: tally.gf - tally.ga,
			Points:         tally.points(),
			Form:           formString(tally.results),
		})
	}
	return rows
}

// RankDeltaSinceLastMatch reports how many places the team moved with its
// most recent completed fixture. Positive is a climb: 7th to 5th is +2. Zero
// when the team has no completed fixture or no position on either side.
func (s *StandingsService) RankDeltaSinceLastMatch(ctx context.Context, leagueID, seasonID, teamID int64) (int, error) {
	if leagueID <= 0 || seasonID <= 0 || teamID <= 0 {
		return 0, fmt.Errorf("%w: league, season and team ids must be greater than zero", ErrInvalidInput)
	}

	completed, err := s.fixtures.ListCompleted(ctx, leagueID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("load completed fixtures: %w", err)
	}

	var lastAt *time.Time
	for _, fx := range completed {
		if !fx.Completed() || fx.StartingAt == nil {
			continue
		}
		if *fx.HomeTeamID != teamID && *fx.AwayTeamID != teamID {
			continue
		}
		if lastAt == nil || fx.StartingAt.After(*lastAt) {
			lastAt = fx.StartingAt
		}
	}
	if lastAt == nil {
		return 0, nil
	}

	before := positionsAsOf(completed, *lastAt, false)
	after := positionsAsOf(completed, *lastAt, true)
	posBefore, okBefore := before[teamID]
	posAfter, okAfter := after[teamID]
	if !okBefore || !okAfter {
		return 0, nil
	}
	return posBefore - posAfter, nil
}

// positionsAsOf recomputes the season table from the fixtures played up to
// the cutoff and returns each team's position.
func positionsAsOf(fixtures []fixture.Fixture, cutoff time.Time, includeCutoff bool) map[int64]int {
	table := make(map[int64]*teamTally)
	for _, fx := range fixtures {
		if !fx.Completed() || fx.StartingAt == nil {
			continue
		}
		if fx.StartingAt.After(cutoff) {
			continue
		}
		if !includeCutoff && !fx.StartingAt.Before(cutoff) {
			continue
		}
		recordResult(table, fx)
	}

	out := make(map[int64]int, len(table))
	for position, tally := range orderTallies(table) {
		out[tally.teamID] = position + 1
	}
	return out
}

// formString keeps the trailing results, oldest first.
func formString(results []byte) string {
	if len(results) > formLength {
		results = results[len(results)-formLength:]
	}
	return string(results)
}
