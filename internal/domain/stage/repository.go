package stage

import "context"

// Repository describes stage metadata persistence needs from use cases.
type Repository interface {
	UpsertStages(ctx context.Context, stages []Stage) (int, error)
	UpsertGroups(ctx context.Context, groups []Group) (int, error)
	// GroupNames maps group id to display name for one season.
	GroupNames(ctx context.Context, seasonID int64) (map[int64]string, error)
}
