package fixture

import (
	"testing"
	"time"
)

func TestClassifyState(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Status
	}{
		{"INPLAY_1ST_HALF", StatusLive},
		{"INPLAY_2ND_HALF", StatusLive},
		{"INPLAY_ET", StatusLive},
		{"HT", StatusLive},
		{"BREAK", StatusLive},
		{"NS", StatusUpcoming},
		{"TBA", StatusUpcoming},
		{"POSTPONED", StatusUpcoming},
		{"POSTP", StatusUpcoming},
		{"DELAYED", StatusUpcoming},
		{"", StatusUpcoming},
		{"   ", StatusUpcoming},
		{"FT", StatusPast},
		{"AET", StatusPast},
		{"FT_PEN", StatusPast},
		{"CANCELLED", StatusPast},
		{"some-new-code", StatusPast},
	}

	for _, tc := range cases {
		if got := ClassifyState(tc.in); got != tc.want {
			t.Fatalf("ClassifyState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompleted(t *testing.T) {
	t.Parallel()

	home, away := int64(10), int64(20)
	hs, as := 2, 1
	kickoff := time.Date(2020, 3, 1, 20, 0, 0, 0, time.UTC)

	full := Fixture{
		ID: 1, SeasonID: 2, LeagueID: 3,
		HomeTeamID: &home, AwayTeamID: &away,
		Status: StatusPast, StartingAt: &kickoff,
		HomeScore: &hs, AwayScore: &as,
	}
	if !full.Completed() {
		t.Fatal("finished fixture with scores should be completed")
	}

	noScore := full
	noScore.AwayScore = nil
	if noScore.Completed() {
		t.Fatal("fixture without away score must not be completed")
	}

	upcoming := full
	upcoming.Status = StatusUpcoming
	if upcoming.Completed() {
		t.Fatal("upcoming fixture must not be completed")
	}
}
