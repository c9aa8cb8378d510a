package fixture

import "context"

// Repository describes fixture persistence needs from use cases.
type Repository interface {
	UpsertBatch(ctx context.Context, fixtures []Fixture) (int, error)
	// ListCompleted returns past fixtures with both scores present, ordered
	// by kickoff time then fixture id.
	ListCompleted(ctx context.Context, leagueID, seasonID int64) ([]Fixture, error)
}
