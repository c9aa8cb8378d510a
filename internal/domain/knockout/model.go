package knockout

import (
	"fmt"
	"strings"
)

// TieLeg is one match of a tie as stored on the tie row: the fixture
// reference, the sides as they played that leg, and its scoreline.
type TieLeg struct {
	FixtureID  int64
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  int
	AwayScore  int
}

// Tie is a resolved knockout pairing. Team1ID is always the smaller id so
// one pairing maps to exactly one row. Leg1 is the earliest leg, Leg2 the
// latest; Leg2 stays nil for a single-match tie. WinnerTeamID stays nil when
// no rule could decide the tie.
type Tie struct {
	LeagueID       int64
	SeasonID       int64
	RoundName      string
	Team1ID        int64
	Team2ID        int64
	Leg1           *TieLeg
	Leg2           *TieLeg
	AggregateTeam1 int
	AggregateTeam2 int
	WinnerTeamID   *int64
}

func (t Tie) Validate() error {
	if t.LeagueID <= 0 {
		return fmt.Errorf("tie league id must be greater than zero")
	}
	if t.SeasonID <= 0 {
		return fmt.Errorf("tie season id must be greater than zero")
	}
	if t.Team1ID <= 0 || t.Team2ID <= 0 {
		return fmt.Errorf("tie team ids must be greater than zero")
	}
	if t.Team1ID >= t.Team2ID {
		return fmt.Errorf("tie team ids must be ordered ascending")
	}

	return nil
}

// NormalizeRoundName folds provider spellings onto the fixed round
// vocabulary. Unrecognized names pass through unchanged.
func NormalizeRoundName(name string) string {
	value := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(value, "round of 16"), strings.Contains(value, "1/8"), value == "r16":
		return "Round of 16"
	case strings.Contains(value, "quarter"), value == "qf":
		return "Quarter-finals"
	case strings.Contains(value, "semi"), value == "sf":
		return "Semi-finals"
	case strings.Contains(value, "knockout round"):
		return "Knockout Round Play-offs"
	case strings.Contains(value, "final"):
		return "Final"
	default:
		return strings.TrimSpace(name)
	}
}

// IsKnockoutRound reports whether the round name belongs to the knockout
// vocabulary once normalized.
func IsKnockoutRound(name string) bool {
	switch NormalizeRoundName(name) {
	case "Round of 16", "Quarter-finals", "Semi-finals", "Final", "Knockout Round Play-offs":
		return true
	default:
		return false
	}
}
