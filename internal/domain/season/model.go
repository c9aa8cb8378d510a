package season

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Season is one edition of a league, e.g. "2019/2020".
type Season struct {
	ID         int64
	LeagueID   int64
	Name       string
	IsCurrent  bool
	StartingAt *time.Time
	EndingAt   *time.Time
}

func (s Season) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("season id must be greater than zero")
	}
	if s.LeagueID <= 0 {
		return fmt.Errorf("season league id must be greater than zero")
	}

	return nil
}

var startYearRegex = regexp.MustCompile(`(\d{4})\s*[/\-–]\s*(\d{2,4})`)
var bareYearRegex = regexp.MustCompile(`\d{4}`)

// ParseStartYear extracts the opening year from a season label such as
// "2017/18", "2017-2018" or "2017". Returns false when no year is present.
func ParseStartYear(name string) (int, bool) {
	if match := startYearRegex.FindStringSubmatch(name); match != nil {
		year, err := strconv.Atoi(match[1])
		if err == nil {
			return year, true
		}
	}
	if candidate := bareYearRegex.FindString(name); candidate != "" {
		year, err := strconv.Atoi(candidate)
		if err == nil {
			return year, true
		}
	}

	return 0, false
}

// StartYear resolves the opening year, preferring the explicit start date
// over the label.
func (s Season) StartYear() (int, bool) {
	if s.StartingAt != nil {
		return s.StartingAt.Year(), true
	}
	return ParseStartYear(s.Name)
}
