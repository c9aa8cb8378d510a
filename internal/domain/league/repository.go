package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	UpsertBatch(ctx context.Context, leagues []League) (int, error)
}
