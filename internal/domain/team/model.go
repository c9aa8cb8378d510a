package team

import (
	"fmt"
	"strings"
)

// Team is a real football club as known by the data provider.
type Team struct {
	ID        int64
	Name      string
	ShortCode string
	ImagePath string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
