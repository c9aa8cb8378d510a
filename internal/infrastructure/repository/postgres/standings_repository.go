package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/standings"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

// ReplaceSeason deletes every standings row of the season and writes the
// freshly computed tables inside one transaction.
func (r *StandingsRepository) ReplaceSeason(ctx context.Context, leagueID, seasonID int64, rows []standings.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM standings WHERE league_id = $1 AND season_id = $2",
		leagueID, seasonID,
	); err != nil {
		return fmt.Errorf("clear standings league_id=%d season_id=%d: %w", leagueID, seasonID, err)
	}

	for start := 0; start < len(rows); start += upsertChunkSize {
		chunk := rows[start:chunkEnd(start, len(rows))]

		builder := qb.InsertInto("standings").
			Columns(
				"league_id", "season_id", "phase", "group_name", "team_id",
				"position", "played", "won", "draw", "lost",
				"goals_for", "goals_against", "goal_difference", "points", "form",
			)
		for _, item := range chunk {
			builder.Values(
				item.LeagueID, item.SeasonID, string(item.Phase), item.GroupName, item.TeamID,
				item.Position, item.Played, item.Won, item.Draw, item.Lost,
				item.GoalsFor, item.GoalsAgainst, item.GoalDifference, item.Points, item.Form,
			)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standings chunk offset=%d: %w", start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
