package pointspace

import (
	"fmt"
	"time"
)

// Entry is one team's cumulative points total after a given round.
type Entry struct {
	LeagueID         int64
	SeasonID         int64
	TeamID           int64
	RoundNo          int
	MatchDate        *time.Time
	RoundPoints      int
	CumulativePoints int
}

func (e Entry) Validate() error {
	if e.LeagueID <= 0 {
		return fmt.Errorf("points pace league id must be greater than zero")
	}
	if e.SeasonID <= 0 {
		return fmt.Errorf("points pace season id must be greater than zero")
	}
	if e.TeamID <= 0 {
		return fmt.Errorf("points pace team id must be greater than zero")
	}
	if e.RoundNo <= 0 {
		return fmt.Errorf("points pace round number must be greater than zero")
	}

	return nil
}
