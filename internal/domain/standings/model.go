package standings

import "fmt"

// Phase tells which part of a season a table describes.
type Phase string

const (
	PhaseLeague      Phase = "league"
	PhaseGroup       Phase = "group"
	PhaseLeaguePhase Phase = "league_phase"
)

// Row is one team line inside a standings table. Form holds the trailing
// results oldest to newest, at most five letters of W, D or L.
type Row struct {
	LeagueID       int64
	SeasonID       int64
	Phase          Phase
	GroupName      string
	TeamID         int64
	Position       int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Form           string
}

func (r Row) Validate() error {
	if r.LeagueID <= 0 {
		return fmt.Errorf("standings league id must be greater than zero")
	}
	if r.SeasonID <= 0 {
		return fmt.Errorf("standings season id must be greater than zero")
	}
	if r.TeamID <= 0 {
		return fmt.Errorf("standings team id must be greater than zero")
	}
	switch r.Phase {
	case PhaseLeague, PhaseGroup, PhaseLeaguePhase:
	default:
		return fmt.Errorf("unknown standings phase %q", r.Phase)
	}

	return nil
}
