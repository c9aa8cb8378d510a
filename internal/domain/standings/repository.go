package standings

import "context"

// Repository describes standings persistence needs from use cases.
type Repository interface {
	// ReplaceSeason swaps every standings row of the season in one
	// transaction, so re-running a rebuild cannot leave stale lines behind.
	ReplaceSeason(ctx context.Context, leagueID, seasonID int64, rows []Row) error
}
