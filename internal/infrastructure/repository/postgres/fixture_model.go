package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID               int64         `db:"fixture_id"`
	SeasonID         int64         `db:"season_id"`
	LeagueID         int64         `db:"league_id"`
	HomeTeamID       sql.NullInt64 `db:"home_team_id"`
	AwayTeamID       sql.NullInt64 `db:"away_team_id"`
	Competition      string        `db:"competition_type"`
	RoundName        string        `db:"round_name"`
	StageID          sql.NullInt64 `db:"stage_id"`
	StageTypeID      sql.NullInt64 `db:"stage_type_id"`
	GroupID          sql.NullInt64 `db:"group_id"`
	LegNumber        sql.NullInt64 `db:"leg_number"`
	Status           string        `db:"status"`
	StartingAt       sql.NullTime  `db:"starting_at"`
	HomeScore        sql.NullInt64 `db:"home_score"`
	AwayScore        sql.NullInt64 `db:"away_score"`
	HomePenaltyScore sql.NullInt64 `db:"home_penalty_score"`
	AwayPenaltyScore sql.NullInt64 `db:"away_penalty_score"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}
