package knockout

import "testing"

func TestNormalizeRoundName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Round of 16", "Round of 16"},
		{"1/8 Finals", "Round of 16"},
		{"R16", "Round of 16"},
		{"Quarter-finals", "Quarter-finals"},
		{"QF", "Quarter-finals"},
		{"Semi Finals", "Semi-finals"},
		{"SF", "Semi-finals"},
		{"Final", "Final"},
		{"FINAL", "Final"},
		{"Knockout Round Play-offs", "Knockout Round Play-offs"},
		{"Matchweek 12", "Matchweek 12"},
		{"  Regular Season  ", "Regular Season"},
	}

	for _, tc := range cases {
		if got := NormalizeRoundName(tc.in); got != tc.want {
			t.Fatalf("NormalizeRoundName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRoundNameSemiFinalBeatsFinal(t *testing.T) {
	t.Parallel()

	// "semi-final" contains "final" and must still land on semis.
	if got := NormalizeRoundName("Semi-final"); got != "Semi-finals" {
		t.Fatalf("NormalizeRoundName(Semi-final) = %q, want Semi-finals", got)
	}
	if got := NormalizeRoundName("Quarter-final"); got != "Quarter-finals" {
		t.Fatalf("NormalizeRoundName(Quarter-final) = %q, want Quarter-finals", got)
	}
}

func TestIsKnockoutRound(t *testing.T) {
	t.Parallel()

	knockouts := []string{"1/8", "R16", "quarter-finals", "semi finals", "Final", "Knockout Round Play-offs"}
	for _, name := range knockouts {
		if !IsKnockoutRound(name) {
			t.Fatalf("IsKnockoutRound(%q) = false, want true", name)
		}
	}

	others := []string{"Matchweek 3", "Regular Season", "Group A", ""}
	for _, name := range others {
		if IsKnockoutRound(name) {
			t.Fatalf("IsKnockoutRound(%q) = true, want false", name)
		}
	}
}

func TestTieValidate(t *testing.T) {
	t.Parallel()

	valid := Tie{LeagueID: 2, SeasonID: 100, RoundName: "Final", Team1ID: 10, Team2ID: 20}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid tie rejected: %v", err)
	}

	swapped := valid
	swapped.Team1ID, swapped.Team2ID = 20, 10
	if err := swapped.Validate(); err == nil {
		t.Fatal("expected error for descending team ids")
	}
}
