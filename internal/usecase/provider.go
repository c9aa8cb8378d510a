package usecase

import (
	"context"
	"time"
)

// ExternalLeague is a league row as returned by the sport data provider.
type ExternalLeague struct {
	ID        int64
	Name      string
	ImagePath string
	Type      string
	SubType   string
}

// ExternalSeason is a season row as returned by the sport data provider.
// Date pointers stay nil when the provider left them unset.
type ExternalSeason struct {
	ID         int64
	LeagueID   int64
	Name       string
	IsCurrent  bool
	StartingAt *time.Time
	EndingAt   *time.Time
}

// ExternalTeam is a club row as returned by the sport data provider.
type ExternalTeam struct {
	ID        int64
	Name      string
	ShortCode string
	ImagePath string
}

// ExternalStage carries stage metadata attached to a fixture payload.
type ExternalStage struct {
	ID     int64
	TypeID int64
	Name   string
}

// ExternalStageGroup carries group metadata attached to a fixture payload.
type ExternalStageGroup struct {
	ID      int64
	StageID int64
	Name    string
}

// ExternalFixture is one fixture already passed through the record
// normalizer: naive kickoff time, resolved sides, preferred scores,
// penalty totals and the round name fallback chain applied.
type ExternalFixture struct {
	ID               int64
	SeasonID         int64
	LeagueID         int64
	RoundName        string
	LegNumber        *int
	StateCode        string
	StateID          *int64
	StartingAt       *time.Time
	HomeTeamID       *int64
	AwayTeamID       *int64
	HomeScore        *int
	AwayScore        *int
	HomePenaltyScore *int
	AwayPenaltyScore *int
	Stage            *ExternalStage
	Group            *ExternalStageGroup
	Participants     []ExternalTeam
}

// SportDataProvider is the read surface of the upstream football API.
// FixturesBySeason streams fixtures page by page; returning an error from
// the callback stops the walk. StatesMap resolves the state id of fixtures
// whose payload carries no embedded state object.
type SportDataProvider interface {
	SearchLeagues(ctx context.Context, name string) ([]ExternalLeague, error)
	LeagueByID(ctx context.Context, leagueID int64) (ExternalLeague, error)
	SeasonsByLeague(ctx context.Context, leagueID int64) ([]ExternalSeason, error)
	TeamsBySeason(ctx context.Context, seasonID int64) ([]ExternalTeam, error)
	FixturesBySeason(ctx context.Context, seasonID int64, fn func(ExternalFixture) error) error
	StatesMap(ctx context.Context) (map[int64]string, error)
}
