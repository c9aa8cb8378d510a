package league

import (
	"fmt"
	"strings"
)

// CompetitionType buckets a league into the kind of competition it hosts.
type CompetitionType string

const (
	CompetitionLeague      CompetitionType = "league"
	CompetitionDomesticCup CompetitionType = "domestic_cup"
	CompetitionEurope      CompetitionType = "europe"
)

// League is one competition as known by the data provider.
type League struct {
	ID          int64
	Name        string
	ImagePath   string
	SubType     string
	Competition CompetitionType
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be greater than zero")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// ClassifyCompetition maps the provider sub_type onto a competition bucket.
// An unknown or empty sub_type falls back to the static id sets; the default
// is a plain domestic league.
func ClassifyCompetition(subType string, leagueID int64, euroIDs, domesticCupIDs map[int64]struct{}) CompetitionType {
	switch strings.ToLower(strings.TrimSpace(subType)) {
	case "domestic":
		return CompetitionLeague
	case "domestic_cup":
		return CompetitionDomesticCup
	case "cup_international":
		return CompetitionEurope
	}

	if _, ok := euroIDs[leagueID]; ok {
		return CompetitionEurope
	}
	if _, ok := domesticCupIDs[leagueID]; ok {
		return CompetitionDomesticCup
	}

	return CompetitionLeague
}
