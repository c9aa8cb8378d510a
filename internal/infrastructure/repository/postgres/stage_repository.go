package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/stage"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type StageRepository struct {
	db *sqlx.DB
}

func NewStageRepository(db *sqlx.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) UpsertStages(ctx context.Context, stages []stage.Stage) (int, error) {
	total := 0
	for start := 0; start < len(stages); start += upsertChunkSize {
		chunk := stages[start:chunkEnd(start, len(stages))]

		builder := qb.InsertInto("stages").
			Columns("stage_id", "league_id", "season_id", "type_id", "name")
		for _, item := range chunk {
			builder.Values(item.ID, item.LeagueID, item.SeasonID, item.TypeID, nullableString(item.Name))
		}
		query, args, err := builder.Suffix(`ON CONFLICT (stage_id) DO UPDATE SET
    league_id = EXCLUDED.league_id,
    season_id = EXCLUDED.season_id,
    type_id = EXCLUDED.type_id,
    name = COALESCE(EXCLUDED.name, stages.name),
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert stages query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert stages chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}

func (r *StageRepository) GroupNames(ctx context.Context, seasonID int64) (map[int64]string, error) {
	query, args, err := qb.Select("group_id", "name").From("stage_groups").
		Where(qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stage group names query: %w", err)
	}

	var rows []struct {
		GroupID int64          `db:"group_id"`
		Name    sql.NullString `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stage group names season_id=%d: %w", seasonID, err)
	}

	out := make(map[int64]string, len(rows))
	for _, row := range rows {
		out[row.GroupID] = row.Name.String
	}
	return out, nil
}

func (r *StageRepository) UpsertGroups(ctx context.Context, groups []stage.Group) (int, error) {
	total := 0
	for start := 0; start < len(groups); start += upsertChunkSize {
		chunk := groups[start:chunkEnd(start, len(groups))]

		builder := qb.InsertInto("stage_groups").
			Columns("group_id", "stage_id", "league_id", "season_id", "name")
		for _, item := range chunk {
			builder.Values(item.ID, item.StageID, item.LeagueID, item.SeasonID, nullableString(item.Name))
		}
		query, args, err := builder.Suffix(`ON CONFLICT (group_id) DO UPDATE SET
    stage_id = EXCLUDED.stage_id,
    league_id = EXCLUDED.league_id,
    season_id = EXCLUDED.season_id,
    name = COALESCE(EXCLUDED.name, stage_groups.name),
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert stage groups query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert stage groups chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}
