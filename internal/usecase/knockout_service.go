package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/knockout"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
)

// KnockoutService pairs completed knockout fixtures into ties and decides
// winners where the rules allow one.
type KnockoutService struct {
	fixtures fixture.Repository
	ties     knockout.Repository
	logger   *logging.Logger
}

func NewKnockoutService(fixtures fixture.Repository, ties knockout.Repository, logger *logging.Logger) *KnockoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &KnockoutService{fixtures: fixtures, ties: ties, logger: logger}
}

type tiePairKey struct {
	round string
	team1 int64
	team2 int64
}

// ResolveSeason groups the season's completed knockout fixtures by
// (normalized round, unordered team pair) and resolves each tie through the
// winner chain: aggregate score, away goals when awayGoalsRule holds,
// penalty shootout from the last leg carrying one. A tie no rule can decide
// keeps a nil winner; the store never clears a winner already recorded.
func (s *KnockoutService) ResolveSeason(ctx context.Context, leagueID, seasonID int64, awayGoalsRule bool) (int, error) {
	if leagueID <= 0 || seasonID <= 0 {
		return 0, fmt.Errorf("%w: league and season ids must be greater than zero", ErrInvalidInput)
	}

	completed, err := s.fixtures.ListCompleted(ctx, leagueID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("load completed fixtures: %w", err)
	}

	pairs := make(map[tiePairKey][]fixture.Fixture)
	order := make([]tiePairKey, 0)
	for _, fx := range completed {
		if !fx.Completed() || !knockout.IsKnockoutRound(fx.RoundName) {
			continue
		}
		team1, team2 := *fx.HomeTeamID, *fx.AwayTeamID
		if team1 == team2 {
			continue
		}
		if team1 > team2 {
			team1, team2 = team2, team1
		}
		key := tiePairKey{
			round: knockout.NormalizeRoundName(fx.RoundName),
			team1: team1,
			team2: team2,
		}
		if _, seen := pairs[key]; !seen {
			order = append(order, key)
		}
		pairs[key] = append(pairs[key], fx)
	}

	ties := make([]knockout.Tie, 0, len(order))
	for _, key := range order {
		legs := pairs[key]
		sortLegs(legs)
		ties = append(ties, resolveTie(leagueID, seasonID, key, legs, awayGoalsRule))
	}

	count, err := s.ties.UpsertBatch(ctx, ties)
	if err != nil {
		return count, fmt.Errorf("upsert knockout ties: %w", err)
	}

	s.logger.InfoContext(ctx, "knockout ties resolved",
		"league_id", leagueID,
		"season_id", seasonID,
		"ties", count,
	)
	return count, nil
}

func sortLegs(legs []fixture.Fixture) {
	sort.SliceStable(legs, func(i, j int) bool {
		a, b := legs[i], legs[j]
		switch {
		case a.StartingAt != nil && b.StartingAt != nil && !a.StartingAt.Equal(*b.StartingAt):
			return a.StartingAt.Before(*b.StartingAt)
		case a.StartingAt == nil && b.StartingAt != nil:
			return false
		case a.StartingAt != nil && b.StartingAt == nil:
			return true
		}
		if legNumber(a) != legNumber(b) {
			return legNumber(a) < legNumber(b)
		}
		return a.ID < b.ID
	})
}

func legNumber(fx fixture.Fixture) int {
	if fx.LegNumber == nil {
		return 0
	}
	return *fx.LegNumber
}

// resolveTie aggregates the legs of one pairing and decides the winner:
// higher aggregate first, then away goals when the rule is in force, then
// the penalty shootout of the last leg that recorded one.
func resolveTie(leagueID, seasonID int64, key tiePairKey, legs []fixture.Fixture, awayGoalsRule bool) knockout.Tie {
	team1, team2 := key.team1, key.team2

	var agg1, agg2, away1, away2 int
	for _, leg := range legs {
		homeScore, awayScore := *leg.HomeScore, *leg.AwayScore
		if *leg.HomeTeamID == team1 {
			agg1 += homeScore
			agg2 += awayScore
			away2 += awayScore
		} else {
			agg1 += awayScore
			agg2 += homeScore
			away1 += awayScore
		}
	}

	tie := knockout.Tie{
		LeagueID:       leagueID,
		SeasonID:       seasonID,
		RoundName:      key.round,
		Team1ID:        team1,
		Team2ID:        team2,
		Leg1:           tieLeg(legs[0]),
		AggregateTeam1: agg1,
		AggregateTeam2: agg2,
	}
	if len(legs) >= 2 {
		tie.Leg2 = tieLeg(legs[len(legs)-1])
	}
	tie.WinnerTeamID = resolveWinner(team1, team2, legs, agg1, agg2, away1, away2, awayGoalsRule)
	return tie
}

func tieLeg(fx fixture.Fixture) *knockout.TieLeg {
	return &knockout.TieLeg{
		FixtureID:  fx.ID,
		HomeTeamID: *fx.HomeTeamID,
		AwayTeamID: *fx.AwayTeamID,
		HomeScore:  *fx.HomeScore,
		AwayScore:  *fx.AwayScore,
	}
}

func resolveWinner(team1, team2 int64, legs []fixture.Fixture, agg1, agg2, away1, away2 int, awayGoalsRule bool) *int64 {
	if agg1 != agg2 {
		return pickTeam(team1, team2, agg1 > agg2)
	}
	if awayGoalsRule && away1 != away2 {
		return pickTeam(team1, team2, away1 > away2)
	}

	for i := len(legs) - 1; i >= 0; i-- {
		leg := legs[i]
		if leg.HomePenaltyScore == nil || leg.AwayPenaltyScore == nil {
			continue
		}
		homePens, awayPens := *leg.HomePenaltyScore, *leg.AwayPenaltyScore
		if homePens == awayPens {
			return nil
		}
		homeWon := homePens > awayPens
		return pickTeam(team1, team2, (*leg.HomeTeamID == team1) == homeWon)
	}

	return nil
}

func pickTeam(team1, team2 int64, first bool) *int64 {
	winner := team2
	if first {
		winner = team1
	}
	return &winner
}
