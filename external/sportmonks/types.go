package sportmonks

import (
	"encoding/json"
	"strings"
)

type Pagination struct {
	Count       int     `json:"count"`
	PerPage     int     `json:"per_page"`
	CurrentPage int     `json:"current_page"`
	NextPage    *string `json:"next_page"`
	HasMore     bool    `json:"has_more"`
}

type pageEnvelope struct {
	Data       []json.RawMessage `json:"data"`
	Pagination *Pagination       `json:"pagination"`
}

type leaguesEnvelope struct {
	Data []leaguePayload `json:"data"`
}

type leagueEnvelope struct {
	Data leaguePayload `json:"data"`
}

type leaguePayload struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	ImagePath string          `json:"image_path"`
	Type      string          `json:"type"`
	SubType   string          `json:"sub_type"`
	Seasons   []seasonPayload `json:"seasons"`
}

type seasonPayload struct {
	ID         int64  `json:"id"`
	LeagueID   int64  `json:"league_id"`
	Name       string `json:"name"`
	IsCurrent  bool   `json:"is_current"`
	StartingAt string `json:"starting_at"`
	EndingAt   string `json:"ending_at"`
}

type teamPayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ShortCode *string `json:"short_code"`
	ImagePath string  `json:"image_path"`
}

type fixturePayload struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	SeasonID     int64                `json:"season_id"`
	LeagueID     int64                `json:"league_id"`
	StageID      *int64               `json:"stage_id"`
	RoundID      *int64               `json:"round_id"`
	GroupID      *int64               `json:"group_id"`
	Leg          legField             `json:"leg"`
	StartingAt   string               `json:"starting_at"`
	Round        *roundPayload        `json:"round"`
	Stage        *stagePayload        `json:"stage"`
	Group        *groupPayload        `json:"group"`
	State        *statePayload        `json:"state"`
	StateID      *int64               `json:"state_id"`
	Participants []participantPayload `json:"participants"`
	Scores       []scorePayload       `json:"scores"`
}

type roundPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type stagePayload struct {
	ID     int64  `json:"id"`
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
}

type groupPayload struct {
	ID      int64  `json:"id"`
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

type statesEnvelope struct {
	Data []statePayload `json:"data"`
}

type statePayload struct {
	ID            int64  `json:"id"`
	State         string `json:"state"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	DeveloperName string `json:"developer_name"`
}

func (s *statePayload) code() string {
	if s == nil {
		return ""
	}
	if v := strings.TrimSpace(s.DeveloperName); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.State); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.ShortName); v != "" {
		return v
	}
	return strings.TrimSpace(s.Name)
}

type participantPayload struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	ShortCode *string         `json:"short_code"`
	ImagePath string          `json:"image_path"`
	Meta      participantMeta `json:"meta"`
}

type participantMeta struct {
	Location string `json:"location"`
}

type scorePayload struct {
	ParticipantID int64      `json:"participant_id"`
	Description   string     `json:"description"`
	Score         scoreValue `json:"score"`
}

type scoreValue struct {
	Goals       *int   `json:"goals"`
	Participant string `json:"participant"`
}

// legField tolerates both number and "N/M" string encodings from the
// provider.
type legField string

func (l *legField) UnmarshalJSON(data []byte) error {
	value := strings.TrimSpace(string(data))
	value = strings.Trim(value, `"`)
	if value == "null" {
		value = ""
	}
	*l = legField(value)
	return nil
}
