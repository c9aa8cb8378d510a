package usecase

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
	"github.com/onetouchfc/one-touch-loader/internal/domain/pointspace"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
)

var roundDigitsRegex = regexp.MustCompile(`\d+`)

// PointsPaceService derives per-round cumulative points curves from a
// season's completed league fixtures.
type PointsPaceService struct {
	fixtures fixture.Repository
	pace     pointspace.Repository
	logger   *logging.Logger
}

func NewPointsPaceService(fixtures fixture.Repository, pace pointspace.Repository, logger *logging.Logger) *PointsPaceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PointsPaceService{fixtures: fixtures, pace: pace, logger: logger}
}

type paceCell struct {
	points int
	date   *time.Time
}

// RebuildSeason recomputes the pace curve of every team in the season and
// upserts it. The stored cumulative total only ever grows.
func (s *PointsPaceService) RebuildSeason(ctx context.Context, leagueID, seasonID int64) (int, error) {
	if leagueID <= 0 || seasonID <= 0 {
		return 0, fmt.Errorf("%w: league and season ids must be greater than zero", ErrInvalidInput)
	}

	completed, err := s.fixtures.ListCompleted(ctx, leagueID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("load completed fixtures: %w", err)
	}

	eligible := completed[:0:0]
	for _, fx := range completed {
		if fx.Competition == league.CompetitionLeague && fx.Completed() {
			eligible = append(eligible, fx)
		}
	}

	roundOf := buildRoundNumbering(eligible)

	perTeam := make(map[int64]map[int]*paceCell)
	for _, fx := range eligible {
		round := roundOf(fx.RoundName)
		homeScore, awayScore := *fx.HomeScore, *fx.AwayScore
		homePoints, awayPoints := 1, 1
		switch {
		case homeScore > awayScore:
			homePoints, awayPoints = 3, 0
		case homeScore < awayScore:
			homePoints, awayPoints = 0, 3
		}
		addPace(perTeam, *fx.HomeTeamID, round, homePoints, fx.StartingAt)
		addPace(perTeam, *fx.AwayTeamID, round, awayPoints, fx.StartingAt)
	}

	entries := make([]pointspace.Entry, 0, len(eligible)*2)
	for teamID, cells := range perTeam {
		rounds := make([]int, 0, len(cells))
		for round := range cells {
			rounds = append(rounds, round)
		}
		sort.Ints(rounds)

		cumulative := 0
		for _, round := range rounds {
			cell := cells[round]
			cumulative += cell.points
			entries = append(entries, pointspace.Entry{
				LeagueID:         leagueID,
				SeasonID:         seasonID,
				TeamID:           teamID,
				RoundNo:          round,
				MatchDate:        cell.date,
				RoundPoints:      cell.points,
				CumulativePoints: cumulative,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TeamID != entries[j].TeamID {
			return entries[i].TeamID < entries[j].TeamID
		}
		return entries[i].RoundNo < entries[j].RoundNo
	})

	count, err := s.pace.UpsertBatch(ctx, entries)
	if err != nil {
		return count, fmt.Errorf("upsert points pace: %w", err)
	}

	s.logger.InfoContext(ctx, "points pace rebuilt",
		"league_id", leagueID,
		"season_id", seasonID,
		"entries", count,
	)
	return count, nil
}

// buildRoundNumbering maps round labels to numbers. Labels carrying digits
// use the first digit run; labels without digits receive ordinals past the
// highest parsed round, assigned in kickoff order so re-runs stay stable.
func buildRoundNumbering(fixtures []fixture.Fixture) func(label string) int {
	parsed := make(map[string]int)
	maxRound := 0
	for _, fx := range fixtures {
		if _, ok := parsed[fx.RoundName]; ok {
			continue
		}
		digits := roundDigitsRegex.FindString(fx.RoundName)
		if digits == "" {
			continue
		}
		round, err := strconv.Atoi(digits)
		if err != nil || round <= 0 {
			continue
		}
		parsed[fx.RoundName] = round
		if round > maxRound {
			maxRound = round
		}
	}

	ordinals := make(map[string]int)
	next := maxRound
	return func(label string) int {
		if round, ok := parsed[label]; ok {
			return round
		}
		if round, ok := ordinals[label]; ok {
			return round
		}
		next++
		ordinals[label] = next
		return next
	}
}

// addPace records one result per (team, round). Duplicate and placeholder
// rounds collapse to the latest-dated fixture: its gain replaces the earlier
// one instead of stacking on top of it.
func addPace(perTeam map[int64]map[int]*paceCell, teamID int64, round, points int, date *time.Time) {
	cells := perTeam[teamID]
	if cells == nil {
		cells = make(map[int]*paceCell)
		perTeam[teamID] = cells
	}
	cell := cells[round]
	if cell == nil {
		cells[round] = &paceCell{points: points, date: date}
		return
	}
	if date != nil && (cell.date == nil || date.After(*cell.date)) {
		cell.points = points
		cell.date = date
	}
}
