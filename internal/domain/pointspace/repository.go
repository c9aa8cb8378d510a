package pointspace

import "context"

// Repository describes points pace persistence needs from use cases.
type Repository interface {
	// UpsertBatch inserts or refreshes entries. The stored cumulative total
	// never decreases: conflicts keep the larger of old and new.
	UpsertBatch(ctx context.Context, entries []Entry) (int, error)
}
