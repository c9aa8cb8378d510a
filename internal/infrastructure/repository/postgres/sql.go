package postgres

import (
	"database/sql"
	"time"
)

// upsertChunkSize bounds multi-row INSERT statements; a batch larger than
// this is split into sequential statements.
const upsertChunkSize = 500

func chunkEnd(start, total int) int {
	end := start + upsertChunkSize
	if end > total {
		end = total
	}
	return end
}

func nullInt64ToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	value := v.Int64
	return &value
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	value := int(v.Int64)
	return &value
}

func nullTimeToPtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	value := v.Time
	return &value
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
