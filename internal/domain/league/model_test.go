package league

import "testing"

func TestClassifyCompetition(t *testing.T) {
	t.Parallel()

	euroIDs := map[int64]struct{}{2: {}, 5: {}, 2286: {}}
	cupIDs := map[int64]struct{}{24: {}, 27: {}}

	cases := []struct {
		name     string
		subType  string
		leagueID int64
		want     CompetitionType
	}{
		{"domestic sub type", "domestic", 8, CompetitionLeague},
		{"domestic cup sub type", "domestic_cup", 24, CompetitionDomesticCup},
		{"international cup sub type", "cup_international", 2, CompetitionEurope},
		{"missing sub type euro fallback", "", 5, CompetitionEurope},
		{"missing sub type cup fallback", "", 27, CompetitionDomesticCup},
		{"missing sub type default", "", 8, CompetitionLeague},
		{"unknown sub type default", "friendly", 999, CompetitionLeague},
		{"sub type wins over id sets", "domestic", 2, CompetitionLeague},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ClassifyCompetition(tc.subType, tc.leagueID, euroIDs, cupIDs)
			if got != tc.want {
				t.Fatalf("ClassifyCompetition(%q, %d) = %q, want %q", tc.subType, tc.leagueID, got, tc.want)
			}
		})
	}
}

func TestLeagueValidate(t *testing.T) {
	t.Parallel()

	if err := (League{ID: 8, Name: "Premier League"}).Validate(); err != nil {
		t.Fatalf("valid league rejected: %v", err)
	}
	if err := (League{Name: "Premier League"}).Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := (League{ID: 8, Name: "   "}).Validate(); err == nil {
		t.Fatal("expected error for blank name")
	}
}
