package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onetouchfc/one-touch-loader/internal/domain/fixture"
	"github.com/onetouchfc/one-touch-loader/internal/domain/stage"
	"github.com/onetouchfc/one-touch-loader/internal/domain/standings"
)

func newStandingsService(fixtures *fixtureRepoStub, stages *stageRepoStub, tables *standingsRepoStub) *StandingsService {
	if stages == nil {
		stages = &stageRepoStub{}
	}
	return NewStandingsService(fixtures, stages, tables, nil)
}

func TestStandingsRebuildRanksByPointsThenGoals(t *testing.T) {
	t.Parallel()

	// Teams 1 and 2 finish level on points; team 2 has the better goal
	// difference. Team 3 loses everything.
	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{
		completedFixture(1, 1, 3, 2, 0, 1),
		completedFixture(2, 2, 3, 4, 0, 2),
		completedFixture(3, 1, 2, 1, 1, 3),
	}}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, nil, tables)
	count, err := svc.RebuildSeason(context.Background(), 8, 100)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Len(t, tables.replaced, 3)

	first, second, third := tables.replaced[0], tables.replaced[1], tables.replaced[2]
	require.Equal(t, int64(2), first.TeamID)
	require.Equal(t, int64(1), second.TeamID)
	require.Equal(t, int64(3), third.TeamID)

	require.Equal(t, 1, first.Position)
	require.Equal(t, 4, first.Points)
	require.Equal(t, 4, second.Points)
	require.Equal(t, 4, first.GoalDifference)
	require.Equal(t, 2, second.GoalDifference)
	require.Equal(t, 0, third.Points)
	require.Equal(t, standings.PhaseLeague, first.Phase)
	require.Equal(t, "WD", first.Form)
	require.Equal(t, "LL", third.Form)
}

func TestStandingsTieBreakFallsThroughGoalsForAndTeamID(t *testing.T) {
	t.Parallel()

	// All three pairings drawn so points and goal difference are level for
	// everyone; goals scored then team id decide.
	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{
		completedFixture(1, 1, 2, 2, 2, 1),
		completedFixture(2, 2, 3, 0, 0, 2),
		completedFixture(3, 3, 1, 1, 1, 3),
	}}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, nil, tables)
	_, err := svc.RebuildSeason(context.Background(), 8, 100)
	require.NoError(t, err)
	require.Len(t, tables.replaced, 3)

	// Team 1: 3 GF, team 2: 2, team 3: 1. All on 2 points, GD 0.
	require.Equal(t, int64(1), tables.replaced[0].TeamID)
	require.Equal(t, int64(2), tables.replaced[1].TeamID)
	require.Equal(t, int64(3), tables.replaced[2].TeamID)
}

func TestStandingsFormKeepsLastFiveOldestFirst(t *testing.T) {
	t.Parallel()

	completed := make([]fixture.Fixture, 0, 6)
	// Team 1 beats team 2 five times, then loses the sixth.
	for day := 1; day <= 5; day++ {
		completed = append(completed, completedFixture(int64(day), 1, 2, 1, 0, day))
	}
	completed = append(completed, completedFixture(6, 2, 1, 3, 0, 6))

	fixtures := &fixtureRepoStub{completed: completed}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, nil, tables)
	_, err := svc.RebuildSeason(context.Background(), 8, 100)
	require.NoError(t, err)

	var form string
	for _, row := range tables.replaced {
		if row.TeamID == 1 {
			form = row.Form
		}
	}
	require.Equal(t, "WWWWL", form)
}

func TestStandingsGroupPhaseSplit(t *testing.T) {
	t.Parallel()

	groupTypeID := stage.TypeGroup
	groupA := completedFixture(1, 10, 11, 1, 0, 1)
	groupA.StageTypeID = &groupTypeID
	groupA.GroupID = int64Ptr(500)
	groupB := completedFixture(2, 12, 13, 2, 2, 2)
	groupB.StageTypeID = &groupTypeID
	groupB.GroupID = int64Ptr(501)
	leaguePhase := completedFixture(3, 14, 15, 0, 1, 3)
	leaguePhase.StageTypeID = &groupTypeID

	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{groupA, groupB, leaguePhase}}
	stages := &stageRepoStub{groupNames: map[int64]string{500: "Group A"}}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, stages, tables)
	count, err := svc.RebuildSeason(context.Background(), 2, 100)
	require.NoError(t, err)
	require.Equal(t, 6, count)

	byPhase := make(map[standings.Phase]map[string]int)
	for _, row := range tables.replaced {
		if byPhase[row.Phase] == nil {
			byPhase[row.Phase] = make(map[string]int)
		}
		byPhase[row.Phase][row.GroupName]++
	}
	require.Equal(t, 2, byPhase[standings.PhaseGroup]["Group A"])
	// Unnamed group falls back to a synthetic label.
	require.Equal(t, 2, byPhase[standings.PhaseGroup]["Group 501"])
	require.Equal(t, 2, byPhase[standings.PhaseLeaguePhase][""])
}

func TestStandingsSkipsKnockoutRounds(t *testing.T) {
	t.Parallel()

	knockoutLeg := completedFixture(1, 10, 11, 2, 0, 1)
	knockoutLeg.RoundName = "Semi-finals"
	regular := completedFixture(2, 10, 11, 1, 1, 2)

	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{knockoutLeg, regular}}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, nil, tables)
	_, err := svc.RebuildSeason(context.Background(), 2, 100)
	require.NoError(t, err)

	for _, row := range tables.replaced {
		require.Equal(t, 1, row.Played)
		require.Equal(t, 1, row.Draw)
	}
}

func TestStandingsRebuildIsIdempotent(t *testing.T) {
	t.Parallel()

	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{
		completedFixture(1, 1, 2, 2, 1, 1),
	}}
	tables := &standingsRepoStub{}

	svc := newStandingsService(fixtures, nil, tables)
	_, err := svc.RebuildSeason(context.Background(), 8, 100)
	require.NoError(t, err)
	firstRun := append([]standings.Row(nil), tables.replaced...)

	_, err = svc.RebuildSeason(context.Background(), 8, 100)
	require.NoError(t, err)
	require.Equal(t, firstRun, tables.replaced)
	require.Equal(t, 2, tables.calls)
}

func TestStandingsRejectsInvalidIDs(t *testing.T) {
	t.Parallel()

	svc := newStandingsService(&fixtureRepoStub{}, nil, &standingsRepoStub{})
	_, err := svc.RebuildSeason(context.Background(), 0, 100)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStandingsRankDeltaSinceLastMatch(t *testing.T) {
	t.Parallel()

	// Team 2 loses the opener, then wins the return fixture heavily enough
	// to overtake team 1 on goal difference: a one-place climb.
	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{
		completedFixture(1, 1, 2, 2, 0, 1),
		completedFixture(2, 2, 1, 3, 0, 8),
	}}

	svc := newStandingsService(fixtures, nil, &standingsRepoStub{})

	delta, err := svc.RankDeltaSinceLastMatch(context.Background(), 8, 100, 2)
	require.NoError(t, err)
	require.Equal(t, 1, delta)

	delta, err = svc.RankDeltaSinceLastMatch(context.Background(), 8, 100, 1)
	require.NoError(t, err)
	require.Equal(t, -1, delta)
}

func TestStandingsRankDeltaWithoutMatchesIsZero(t *testing.T) {
	t.Parallel()

	fixtures := &fixtureRepoStub{completed: []fixture.Fixture{
		completedFixture(1, 1, 2, 2, 0, 1),
	}}

	svc := newStandingsService(fixtures, nil, &standingsRepoStub{})
	delta, err := svc.RankDeltaSinceLastMatch(context.Background(), 8, 100, 99)
	require.NoError(t, err)
	require.Zero(t, delta)

	_, err = svc.RankDeltaSinceLastMatch(context.Background(), 8, 100, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}
