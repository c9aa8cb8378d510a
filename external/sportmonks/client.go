package sportmonks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/onetouchfc/one-touch-loader/internal/platform/logging"
	"github.com/onetouchfc/one-touch-loader/internal/platform/resilience"
	"github.com/onetouchfc/one-touch-loader/internal/usecase"
)

const (
	defaultBaseURL        = "https://api.sportmonks.com/v3/football"
	defaultMaxRetries     = 6
	defaultIncludeFixture = "participants;state;scores;round;stage;group"
	teamsPerPage          = 50
	fixturesPerPage       = 100

	initialBackoff     = time.Second
	rateLimitSleepMin  = 500 * time.Millisecond
	rateLimitSleepMax  = 120 * time.Second
	rateLimitJitterMax = 500 * time.Millisecond
	serverErrSleepMax  = 60 * time.Second
	serverErrJitterMax = 250 * time.Millisecond
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errSportMonksTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the SportMonks v3 football API. Rate limits and transient
// server failures are absorbed by a bounded retry loop with jittered
// exponential backoff.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	// injected in tests so retries do not block wall-clock time
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		sleep:          sleepContext,
		jitter:         randomJitter,
	}
}

func (c *Client) SearchLeagues(ctx context.Context, name string) ([]usecase.ExternalLeague, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: league search name is required", usecase.ErrInvalidInput)
	}

	var envelope leaguesEnvelope
	path := "/leagues/search/" + url.PathEscape(name)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("search leagues name=%q: %w", name, err)
	}

	out := make([]usecase.ExternalLeague, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapLeague(item))
	}
	return out, nil
}

func (c *Client) LeagueByID(ctx context.Context, leagueID int64) (usecase.ExternalLeague, error) {
	if leagueID <= 0 {
		return usecase.ExternalLeague{}, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope leagueEnvelope
	path := fmt.Sprintf("/leagues/%d", leagueID)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return usecase.ExternalLeague{}, fmt.Errorf("fetch league league_id=%d: %w", leagueID, err)
	}
	if envelope.Data.ID <= 0 {
		return usecase.ExternalLeague{}, fmt.Errorf("%w: league %d", usecase.ErrNotFound, leagueID)
	}
	return mapLeague(envelope.Data), nil
}

func (c *Client) SeasonsByLeague(ctx context.Context, leagueID int64) ([]usecase.ExternalSeason, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope leagueEnvelope
	path := fmt.Sprintf("/leagues/%d", leagueID)
	query := map[string]string{"include": "seasons"}
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch seasons league_id=%d: %w", leagueID, err)
	}

	out := make([]usecase.ExternalSeason, 0, len(envelope.Data.Seasons))
	for _, item := range envelope.Data.Seasons {
		if item.ID <= 0 {
			continue
		}
		if item.LeagueID <= 0 {
			item.LeagueID = leagueID
		}
		out = append(out, mapSeason(item))
	}
	return out, nil
}

func (c *Client) TeamsBySeason(ctx context.Context, seasonID int64) ([]usecase.ExternalTeam, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id must be greater than zero", usecase.ErrInvalidInput)
	}

	pager := c.paginate(fmt.Sprintf("/teams/seasons/%d", seasonID), map[string]string{
		"per_page": strconv.Itoa(teamsPerPage),
	})

	out := make([]usecase.ExternalTeam, 0, teamsPerPage)
	err := eachItem(ctx, pager, func(item teamPayload) error {
		if item.ID <= 0 {
			return nil
		}
		out = append(out, mapTeam(item))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch teams season_id=%d: %w", seasonID, err)
	}
	return out, nil
}

func (c *Client) FixturesBySeason(ctx context.Context, seasonID int64, fn func(usecase.ExternalFixture) error) error {
	if seasonID <= 0 {
		return fmt.Errorf("%w: season id must be greater than zero", usecase.ErrInvalidInput)
	}
	if fn == nil {
		return fmt.Errorf("%w: fixture callback is required", usecase.ErrInvalidInput)
	}

	pager := c.paginate("/fixtures", map[string]string{
		"filters":  fmt.Sprintf("fixtureSeasons:%d", seasonID),
		"include":  defaultIncludeFixture,
		"per_page": strconv.Itoa(fixturesPerPage),
	})

	err := eachItem(ctx, pager, func(item fixturePayload) error {
		if item.ID <= 0 {
			return nil
		}
		return fn(normalizeFixture(item))
	})
	if err != nil {
		return fmt.Errorf("fetch fixtures season_id=%d: %w", seasonID, err)
	}
	return nil
}

// StatesMap fetches the fixture state catalog as id to code. Fixtures whose
// payload embeds no state object resolve their state_id against it.
func (c *Client) StatesMap(ctx context.Context) (map[int64]string, error) {
	var envelope statesEnvelope
	if err := c.doJSON(ctx, "/states", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixture states: %w", err)
	}

	out := make(map[int64]string, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		if code := item.code(); code != "" {
			out[item.ID] = strings.ToUpper(code)
		}
	}
	return out, nil
}

// Pager lazily walks a paginated collection endpoint. A fresh Pager starts
// at page one; restarting means constructing a new one.
type Pager struct {
	client  *Client
	path    string
	query   map[string]string
	page    int
	hasMore bool
	items   []json.RawMessage
	idx     int
	current json.RawMessage
	err     error
}

func (c *Client) paginate(path string, query map[string]string) *Pager {
	return &Pager{
		client:  c,
		path:    path,
		query:   query,
		page:    1,
		hasMore: true,
	}
}

func (p *Pager) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}
	for p.idx >= len(p.items) {
		if !p.hasMore {
			return false
		}
		if err := p.fetchPage(ctx); err != nil {
			p.err = err
			return false
		}
	}
	p.current = p.items[p.idx]
	p.idx++
	return true
}

func (p *Pager) Raw() json.RawMessage {
	return p.current
}

func (p *Pager) Err() error {
	return p.err
}

func (p *Pager) fetchPage(ctx context.Context) error {
	query := make(map[string]string, len(p.query)+1)
	for key, value := range p.query {
		query[key] = value
	}
	query["page"] = strconv.Itoa(p.page)

	var envelope pageEnvelope
	if err := p.client.doJSON(ctx, p.path, query, &envelope); err != nil {
		return fmt.Errorf("fetch page %d: %w", p.page, err)
	}

	p.items = envelope.Data
	p.idx = 0
	p.page++
	// An empty page is terminal even when the provider still claims more;
	// trusting has_more there would loop on the same empty response.
	p.hasMore = len(envelope.Data) > 0 && envelope.Pagination != nil && envelope.Pagination.HasMore
	return nil
}

func eachItem[T any](ctx context.Context, pager *Pager, fn func(T) error) error {
	for pager.Next(ctx) {
		var item T
		if err := sonic.Unmarshal(pager.Raw(), &item); err != nil {
			return fmt.Errorf("decode provider item: %w", err)
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return pager.Err()
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isSportMonksCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

// executeRequest runs the bounded retry loop. 429 responses honor the
// Retry-After header clamped to [0.5s, 120s]; 5xx responses wait the
// current backoff capped at 60s; any other 4xx fails immediately.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", c.token)
		}

		var wait time.Duration
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errSportMonksTransient, sanitizeSensitiveText(err.Error(), c.token))
			wait = minDuration(backoff, serverErrSleepMax) + c.jitter(serverErrJitterMax)
			backoff = minDuration(backoff*2, serverErrSleepMax)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errSportMonksTransient, readErr)
				wait = minDuration(backoff, serverErrSleepMax) + c.jitter(serverErrJitterMax)
				backoff = minDuration(backoff*2, serverErrSleepMax)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: provider status=429 body=%s", errSportMonksTransient, abbreviateBody(raw))
				wait = retryAfterDelay(resp.Header.Get("Retry-After"), backoff) + c.jitter(rateLimitJitterMax)
				backoff = minDuration(backoff*2, rateLimitSleepMax)
			case resp.StatusCode >= 500:
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSportMonksTransient, resp.StatusCode, abbreviateBody(raw))
				wait = minDuration(backoff, serverErrSleepMax) + c.jitter(serverErrJitterMax)
				backoff = minDuration(backoff*2, serverErrSleepMax)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// retryAfterDelay parses a Retry-After seconds value and clamps it to the
// rate limit window. Unparseable headers fall back to the current backoff.
func retryAfterDelay(header string, backoff time.Duration) time.Duration {
	value := strings.TrimSpace(header)
	delay := backoff
	if value != "" {
		if seconds, err := strconv.ParseFloat(value, 64); err == nil {
			delay = time.Duration(seconds * float64(time.Second))
		}
	}

	if delay < rateLimitSleepMin {
		delay = rateLimitSleepMin
	}
	if delay > rateLimitSleepMax {
		delay = rateLimitSleepMax
	}
	return delay
}

func isSportMonksCircuitFailure(err error) bool {
	return crerr.Is(err, errSportMonksTransient)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func redactAPIURL(raw string) string {
	return apiTokenParamRegex.ReplaceAllString(raw, "api_token=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
