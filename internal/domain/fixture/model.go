package fixture

import (
	"fmt"
	"strings"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
)

// Status is the coarse lifecycle bucket of a fixture.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusPast     Status = "past"
)

// Fixture is one match, normalized from the provider payload. Pointer fields
// stay nil when the provider did not report the value.
type Fixture struct {
	ID               int64
	SeasonID         int64
	LeagueID         int64
	HomeTeamID       *int64
	AwayTeamID       *int64
	Competition      league.CompetitionType
	RoundName        string
	StageID          *int64
	StageTypeID      *int64
	GroupID          *int64
	LegNumber        *int
	Status           Status
	StartingAt       *time.Time
	HomeScore        *int
	AwayScore        *int
	HomePenaltyScore *int
	AwayPenaltyScore *int
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id must be greater than zero")
	}
	if f.SeasonID <= 0 {
		return fmt.Errorf("fixture season id must be greater than zero")
	}
	if f.LeagueID <= 0 {
		return fmt.Errorf("fixture league id must be greater than zero")
	}

	return nil
}

// Completed reports whether the fixture finished with a usable scoreline.
func (f Fixture) Completed() bool {
	return f.Status == StatusPast && f.HomeScore != nil && f.AwayScore != nil &&
		f.HomeTeamID != nil && f.AwayTeamID != nil
}

// ClassifyState maps a provider state code onto a Status. The mapping is
// total: unknown codes land on past, an empty code on upcoming.
func ClassifyState(stateCode string) Status {
	code := strings.ToUpper(strings.TrimSpace(stateCode))
	if code == "" {
		return StatusUpcoming
	}

	switch {
	case strings.HasPrefix(code, "INPLAY"), code == "HT", code == "BREAK":
		return StatusLive
	case code == "NS", code == "TBA",
		strings.HasPrefix(code, "POSTP"), strings.HasPrefix(code, "DELA"):
		return StatusUpcoming
	default:
		return StatusPast
	}
}
