package sportmonks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/usecase"
)

// ParseProviderDateTime parses the timestamp shapes the provider emits:
// "YYYY-MM-DD HH:MM:SS", ISO-8601 with "T", with or without an offset or
// "Z", and bare dates. Any timezone is stripped, keeping the wall clock as
// written. Returns nil when nothing parses.
func ParseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return naive(parsed)
	}

	// Last resort: truncate trailing zone or fraction noise and retry.
	if len(value) > 19 {
		truncated := value[:19]
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			parsed, err := time.Parse(layout, truncated)
			if err == nil {
				return naive(parsed)
			}
		}
	}

	return nil
}

// naive re-reads the clock fields in UTC, discarding the source offset
// without shifting the wall time.
func naive(t time.Time) *time.Time {
	out := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return &out
}

// ParseLegNumber reads a leg marker that is either a bare number or the
// "N/M" form, returning N. Returns nil for anything else.
func ParseLegNumber(raw string) *int {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	if idx := strings.Index(value, "/"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// resolveRoundName walks the fallback chain for a fixture's round label:
// round name, stage name, group name, fixture name, then a synthetic
// "Round {id}" and finally "Unknown".
func resolveRoundName(f fixturePayload) string {
	if f.Round != nil {
		if name := strings.TrimSpace(f.Round.Name); name != "" {
			return name
		}
	}
	if f.Stage != nil {
		if name := strings.TrimSpace(f.Stage.Name); name != "" {
			return name
		}
	}
	if f.Group != nil {
		if name := strings.TrimSpace(f.Group.Name); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		return name
	}
	if f.RoundID != nil && *f.RoundID > 0 {
		return fmt.Sprintf("Round %d", *f.RoundID)
	}
	return "Unknown"
}

// resolveHomeAway decides the sides of a fixture. Participant meta.location
// wins; score entries tagged with a side fill anything still missing.
func resolveHomeAway(participants []participantPayload, scores []scorePayload) (home, away *int64) {
	for _, p := range participants {
		switch strings.ToLower(strings.TrimSpace(p.Meta.Location)) {
		case "home":
			id := p.ID
			home = &id
		case "away":
			id := p.ID
			away = &id
		}
	}
	if home != nil && away != nil {
		return home, away
	}

	for _, s := range scores {
		if s.ParticipantID <= 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(s.Score.Participant)) {
		case "home":
			if home == nil {
				id := s.ParticipantID
				home = &id
			}
		case "away":
			if away == nil {
				id := s.ParticipantID
				away = &id
			}
		}
	}
	return home, away
}

// extractScores picks one goal count per side. Entries described as CURRENT
// win; otherwise the last entry seen for the side stands.
func extractScores(scores []scorePayload) (home, away *int) {
	var homeCurrent, awayCurrent bool
	for _, s := range scores {
		if s.Score.Goals == nil {
			continue
		}
		goals := *s.Score.Goals
		current := strings.EqualFold(strings.TrimSpace(s.Description), "CURRENT")

		switch strings.ToLower(strings.TrimSpace(s.Score.Participant)) {
		case "home":
			if current || !homeCurrent {
				v := goals
				home = &v
			}
			homeCurrent = homeCurrent || current
		case "away":
			if current || !awayCurrent {
				v := goals
				away = &v
			}
			awayCurrent = awayCurrent || current
		}
	}
	return home, away
}

// extractPenaltyScores reads shootout totals from entries whose description
// carries a PEN marker, keeping the per-side maximum.
func extractPenaltyScores(scores []scorePayload) (home, away *int) {
	for _, s := range scores {
		if s.Score.Goals == nil {
			continue
		}
		if !strings.Contains(strings.ToUpper(s.Description), "PEN") {
			continue
		}
		goals := *s.Score.Goals

		switch strings.ToLower(strings.TrimSpace(s.Score.Participant)) {
		case "home":
			if home == nil || goals > *home {
				v := goals
				home = &v
			}
		case "away":
			if away == nil || goals > *away {
				v := goals
				away = &v
			}
		}
	}
	return home, away
}

// normalizeFixture assembles the provider-neutral fixture record from one
// raw payload.
func normalizeFixture(f fixturePayload) usecase.ExternalFixture {
	homeID, awayID := resolveHomeAway(f.Participants, f.Scores)
	homeScore, awayScore := extractScores(f.Scores)
	homePen, awayPen := extractPenaltyScores(f.Scores)

	out := usecase.ExternalFixture{
		ID:               f.ID,
		SeasonID:         f.SeasonID,
		LeagueID:         f.LeagueID,
		RoundName:        resolveRoundName(f),
		LegNumber:        ParseLegNumber(string(f.Leg)),
		StateCode:        f.State.code(),
		StateID:          f.StateID,
		StartingAt:       ParseProviderDateTime(f.StartingAt),
		HomeTeamID:       homeID,
		AwayTeamID:       awayID,
		HomeScore:        homeScore,
		AwayScore:        awayScore,
		HomePenaltyScore: homePen,
		AwayPenaltyScore: awayPen,
	}

	if f.Stage != nil && f.Stage.ID > 0 {
		out.Stage = &usecase.ExternalStage{
			ID:     f.Stage.ID,
			TypeID: f.Stage.TypeID,
			Name:   strings.TrimSpace(f.Stage.Name),
		}
	}
	if f.Group != nil && f.Group.ID > 0 {
		out.Group = &usecase.ExternalStageGroup{
			ID:      f.Group.ID,
			StageID: f.Group.StageID,
			Name:    strings.TrimSpace(f.Group.Name),
		}
	}

	out.Participants = make([]usecase.ExternalTeam, 0, len(f.Participants))
	for _, p := range f.Participants {
		if p.ID <= 0 {
			continue
		}
		out.Participants = append(out.Participants, mapTeam(teamPayload{
			ID:        p.ID,
			Name:      p.Name,
			ShortCode: p.ShortCode,
			ImagePath: p.ImagePath,
		}))
	}

	return out
}

func mapTeam(p teamPayload) usecase.ExternalTeam {
	shortCode := ""
	if p.ShortCode != nil {
		shortCode = strings.TrimSpace(*p.ShortCode)
	}
	return usecase.ExternalTeam{
		ID:        p.ID,
		Name:      strings.TrimSpace(p.Name),
		ShortCode: shortCode,
		ImagePath: strings.TrimSpace(p.ImagePath),
	}
}

func mapLeague(p leaguePayload) usecase.ExternalLeague {
	return usecase.ExternalLeague{
		ID:        p.ID,
		Name:      strings.TrimSpace(p.Name),
		ImagePath: strings.TrimSpace(p.ImagePath),
		Type:      strings.TrimSpace(p.Type),
		SubType:   strings.TrimSpace(p.SubType),
	}
}

func mapSeason(p seasonPayload) usecase.ExternalSeason {
	return usecase.ExternalSeason{
		ID:         p.ID,
		LeagueID:   p.LeagueID,
		Name:       strings.TrimSpace(p.Name),
		IsCurrent:  p.IsCurrent,
		StartingAt: ParseProviderDateTime(p.StartingAt),
		EndingAt:   ParseProviderDateTime(p.EndingAt),
	}
}
