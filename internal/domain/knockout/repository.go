package knockout

import "context"

// Repository describes knockout tie persistence needs from use cases.
type Repository interface {
	// UpsertBatch inserts or refreshes ties. A winner already stored is
	// never cleared or replaced, only a null winner can be filled in.
	UpsertBatch(ctx context.Context, ties []Tie) (int, error)
}
