package season

import (
	"context"
	"time"
)

// Repository describes season persistence needs from use cases.
type Repository interface {
	UpsertBatch(ctx context.Context, seasons []Season) (int, error)
	// BackfillDates fills starting/ending dates only where they are still null.
	BackfillDates(ctx context.Context, seasonID int64, startingAt, endingAt time.Time) error
}
