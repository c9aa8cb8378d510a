package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onetouchfc/one-touch-loader/internal/domain/team"
	qb "github.com/onetouchfc/one-touch-loader/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) UpsertBatch(ctx context.Context, teams []team.Team) (int, error) {
	total := 0
	for start := 0; start < len(teams); start += upsertChunkSize {
		chunk := teams[start:chunkEnd(start, len(teams))]

		builder := qb.InsertInto("teams").
			Columns("team_id", "name", "short_code", "image_path")
		for _, item := range chunk {
			builder.Values(
				item.ID,
				item.Name,
				nullableString(item.ShortCode),
				nullableString(item.ImagePath),
			)
		}
		query, args, err := builder.Suffix(`ON CONFLICT (team_id) DO UPDATE SET
    name = EXCLUDED.name,
    short_code = COALESCE(EXCLUDED.short_code, teams.short_code),
    image_path = COALESCE(EXCLUDED.image_path, teams.image_path),
    updated_at = NOW()`).ToSQL()
		if err != nil {
			return total, fmt.Errorf("build upsert teams query: %w", err)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return total, fmt.Errorf("upsert teams chunk offset=%d: %w", start, err)
		}
		total += len(chunk)
	}

	return total, nil
}
