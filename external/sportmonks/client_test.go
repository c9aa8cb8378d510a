package sportmonks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/onetouchfc/one-touch-loader/internal/usecase"
)

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.sleeps...)
}

func newTestClient(t *testing.T, baseURL string, maxRetries int) (*Client, *sleepRecorder) {
	t.Helper()

	client := NewClient(ClientConfig{
		BaseURL:    baseURL,
		Token:      "test-token",
		MaxRetries: maxRetries,
	})
	recorder := &sleepRecorder{}
	client.sleep = recorder.sleep
	client.jitter = func(time.Duration) time.Duration { return 0 }
	return client, recorder
}

func TestClientSendsRawTokenHeader(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"data":{"id":8,"name":"Premier League","sub_type":"domestic"}}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1)
	if _, err := client.LeagueByID(context.Background(), 8); err != nil {
		t.Fatalf("LeagueByID: %v", err)
	}
	if gotAuth != "test-token" {
		t.Fatalf("Authorization header = %q, want raw token", gotAuth)
	}
}

func TestClientHonorsRetryAfterOnRateLimit(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data":{"id":8,"name":"Premier League"}}`)
	}))
	defer server.Close()

	client, recorder := newTestClient(t, server.URL, 6)
	if _, err := client.LeagueByID(context.Background(), 8); err != nil {
		t.Fatalf("LeagueByID: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 provider calls, got %d", calls)
	}

	sleeps := recorder.recorded()
	if len(sleeps) != 1 || sleeps[0] != 3*time.Second {
		t.Fatalf("sleeps = %v, want one 3s wait from Retry-After", sleeps)
	}
}

func TestClientClampsRetryAfter(t *testing.T) {
	t.Parallel()

	if got := retryAfterDelay("0.1", time.Second); got != rateLimitSleepMin {
		t.Fatalf("tiny Retry-After = %v, want %v", got, rateLimitSleepMin)
	}
	if got := retryAfterDelay("999", time.Second); got != rateLimitSleepMax {
		t.Fatalf("huge Retry-After = %v, want %v", got, rateLimitSleepMax)
	}
	if got := retryAfterDelay("soon", 4*time.Second); got != 4*time.Second {
		t.Fatalf("unparseable Retry-After = %v, want current backoff", got)
	}
}

func TestClientBacksOffOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"data":{"id":8,"name":"Premier League"}}`)
	}))
	defer server.Close()

	client, recorder := newTestClient(t, server.URL, 6)
	if _, err := client.LeagueByID(context.Background(), 8); err != nil {
		t.Fatalf("LeagueByID: %v", err)
	}

	sleeps := recorder.recorded()
	if len(sleeps) != 2 || sleeps[0] != time.Second || sleeps[1] != 2*time.Second {
		t.Fatalf("sleeps = %v, want [1s 2s] doubling backoff", sleeps)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, recorder := newTestClient(t, server.URL, 6)
	if _, err := client.LeagueByID(context.Background(), 8); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls != 1 {
		t.Fatalf("expected single provider call, got %d", calls)
	}
	if sleeps := recorder.recorded(); len(sleeps) != 0 {
		t.Fatalf("unexpected sleeps %v for non-retryable status", sleeps)
	}
}

func TestClientExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, recorder := newTestClient(t, server.URL, 3)
	_, err := client.LeagueByID(context.Background(), 8)
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if sleeps := recorder.recorded(); len(sleeps) != 2 {
		t.Fatalf("expected 2 waits between 3 attempts, got %v", sleeps)
	}
}

func TestTeamsBySeasonWalksAllPages(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"1": `{"data":[{"id":1,"name":"Arsenal"},{"id":2,"name":"Chelsea"}],"pagination":{"current_page":1,"has_more":true}}`,
		"2": `{"data":[{"id":3,"name":"Liverpool"}],"pagination":{"current_page":2,"has_more":false}}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		body, ok := pages[page]
		if !ok {
			t.Errorf("unexpected page %q requested", page)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1)
	teams, err := client.TeamsBySeason(context.Background(), 100)
	if err != nil {
		t.Fatalf("TeamsBySeason: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams across pages, got %d", len(teams))
	}
	if teams[2].Name != "Liverpool" {
		t.Fatalf("unexpected last team %+v", teams[2])
	}
}

func TestFixturesBySeasonStreamsNormalizedRecords(t *testing.T) {
	t.Parallel()

	body := `{"data":[{
		"id":555,"season_id":100,"league_id":2,"leg":"1/2",
		"starting_at":"2020-03-01 20:00:00",
		"round":{"id":9,"name":"Round of 16"},
		"stage":{"id":70,"type_id":224,"name":"Knockout Stage"},
		"state":{"developer_name":"FT"},
		"participants":[
			{"id":10,"name":"Arsenal","meta":{"location":"home"}},
			{"id":20,"name":"Porto","meta":{"location":"away"}}
		],
		"scores":[
			{"participant_id":10,"description":"CURRENT","score":{"goals":2,"participant":"home"}},
			{"participant_id":20,"description":"CURRENT","score":{"goals":1,"participant":"away"}}
		]
	}],"pagination":{"current_page":1,"has_more":false}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if filters := r.URL.Query().Get("filters"); filters != "fixtureSeasons:100" {
			t.Errorf("unexpected filters %q", filters)
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1)
	var got []usecase.ExternalFixture
	err := client.FixturesBySeason(context.Background(), 100, func(f usecase.ExternalFixture) error {
		got = append(got, f)
		return nil
	})
	if err != nil {
		t.Fatalf("FixturesBySeason: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(got))
	}

	f := got[0]
	if f.ID != 555 || *f.HomeTeamID != 10 || *f.AwayTeamID != 20 {
		t.Fatalf("unexpected fixture %+v", f)
	}
	if *f.HomeScore != 2 || *f.AwayScore != 1 {
		t.Fatalf("unexpected scores (%d, %d)", *f.HomeScore, *f.AwayScore)
	}
	if f.LegNumber == nil || *f.LegNumber != 1 {
		t.Fatalf("unexpected leg %v", f.LegNumber)
	}
}

func TestFixturesBySeasonStopsOnCallbackError(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"data":[{"id":1,"season_id":100,"league_id":8},{"id":2,"season_id":100,"league_id":8}],"pagination":{"current_page":1,"has_more":true}}`)
	}))
	defer server.Close()

	sentinel := errors.New("stop here")
	client, _ := newTestClient(t, server.URL, 1)
	err := client.FixturesBySeason(context.Background(), 100, func(usecase.ExternalFixture) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error to surface, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected walk to stop after first page, got %d calls", calls)
	}
}

func TestStatesMapBuildsCodeLookup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"id":1,"developer_name":"NS","name":"Not Started"},
			{"id":5,"state":"ft","name":"Full Time"},
			{"id":7,"name":"Extra Time"},
			{"id":0,"developer_name":"BOGUS"}
		]}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1)
	states, err := client.StatesMap(context.Background())
	if err != nil {
		t.Fatalf("StatesMap: %v", err)
	}

	want := map[int64]string{1: "NS", 5: "FT", 7: "EXTRA TIME"}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for id, code := range want {
		if states[id] != code {
			t.Fatalf("states[%d] = %q, want %q", id, states[id], code)
		}
	}
}

func TestPagerTreatsEmptyPageAsTerminal(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"data":[],"pagination":{"current_page":1,"has_more":true}}`)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1)
	teams, err := client.TeamsBySeason(context.Background(), 100)
	if err != nil {
		t.Fatalf("TeamsBySeason: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected no teams, got %d", len(teams))
	}
	if calls != 1 {
		t.Fatalf("expected the walk to stop after the empty page, got %d calls", calls)
	}
}
