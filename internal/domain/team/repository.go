package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	UpsertBatch(ctx context.Context, teams []Team) (int, error)
}
