package stage

import "fmt"

// TypeGroup is the provider stage type id marking a group or league phase.
const TypeGroup int64 = 223

// Stage is one phase of a season, e.g. "Group Stage" or "Knockout Round".
type Stage struct {
	ID       int64
	LeagueID int64
	SeasonID int64
	TypeID   int64
	Name     string
}

func (s Stage) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("stage id must be greater than zero")
	}

	return nil
}

// Group is one pool inside a group stage, e.g. "Group A".
type Group struct {
	ID       int64
	StageID  int64
	LeagueID int64
	SeasonID int64
	Name     string
}

func (g Group) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("stage group id must be greater than zero")
	}

	return nil
}
