// Package footballapi is a typed client for the API-Football v3 REST API.
package footballapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/nine9188/livescore-api/internal/platform/logging"
	"github.com/nine9188/livescore-api/internal/platform/resilience"
	"github.com/nine9188/livescore-api/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"

	// The fixtures endpoint rejects more than 20 ids per request.
	FixtureIDsBatchSize = 20

	playerStatsMaxPages = 5
	maxBodyBytes        = 6 << 20
)

var errFootballAPITransient = crerr.New("football api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
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

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: maxInt(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// fetchPlayerSeason returns the player profile with per-team season statistics.
func (c *Client) fetchPlayerSeason(ctx context.Context, playerID int64, season int) ([]PlayerSeasonItem, error) {
	if playerID <= 0 {
		return nil, fmt.Errorf("player id must be greater than zero")
	}

	query := url.Values{}
	query.Set("id", strconv.FormatInt(playerID, 10))
	query.Set("season", strconv.Itoa(season))

	items, _, err := getList[PlayerSeasonItem](ctx, c, "/players", query)
	if err != nil {
		return nil, fmt.Errorf("fetch player season player_id=%d season=%d: %w", playerID, season, err)
	}
	return items, nil
}

// fetchTeamSeasonFixtures returns a team's fixtures inside a season window.
// from and to are YYYY-MM-DD and optional together.
func (c *Client) fetchTeamSeasonFixtures(ctx context.Context, teamID int64, season int, from, to string) ([]FixtureItem, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := url.Values{}
	query.Set("team", strconv.FormatInt(teamID, 10))
	query.Set("season", strconv.Itoa(season))
	if from != "" && to != "" {
		query.Set("from", from)
		query.Set("to", to)
	}

	items, _, err := getList[FixtureItem](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch team fixtures team_id=%d season=%d: %w", teamID, season, err)
	}
	return items, nil
}

// fetchFixturesByIDs hydrates up to FixtureIDsBatchSize fixtures, including the
// per-player statistics blocks. Callers chunk larger id sets themselves.
func (c *Client) fetchFixturesByIDs(ctx context.Context, ids []int64) ([]FixtureItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > FixtureIDsBatchSize {
		return nil, fmt.Errorf("at most %d fixture ids per request, got %d", FixtureIDsBatchSize, len(ids))
	}

	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idValues := make([]string, 0, len(sorted))
	for _, id := range sorted {
		idValues = append(idValues, strconv.FormatInt(id, 10))
	}

	query := url.Values{}
	query.Set("ids", strings.Join(idValues, "-"))

	items, _, err := getList[FixtureItem](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures by ids count=%d: %w", len(ids), err)
	}
	return items, nil
}

// fetchHeadToHead returns the most recent finished meetings between two teams.
func (c *Client) fetchHeadToHead(ctx context.Context, teamA, teamB int64, last int) ([]FixtureItem, error) {
	if teamA <= 0 || teamB <= 0 {
		return nil, fmt.Errorf("both team ids must be greater than zero")
	}
	if last < 1 {
		last = 5
	}

	query := url.Values{}
	query.Set("h2h", fmt.Sprintf("%d-%d", teamA, teamB))
	query.Set("last", strconv.Itoa(last))
	query.Set("status", "FT")

	items, _, err := getList[FixtureItem](ctx, c, "/fixtures/headtohead", query)
	if err != nil {
		return nil, fmt.Errorf("fetch head to head teams=%d-%d: %w", teamA, teamB, err)
	}
	return items, nil
}

// fetchTeamRecentFixtures returns a team's last finished fixtures across all
// competitions. Upstream ordering is not guaranteed.
func (c *Client) fetchTeamRecentFixtures(ctx context.Context, teamID int64, last int) ([]FixtureItem, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}
	if last < 1 {
		last = 5
	}

	query := url.Values{}
	query.Set("team", strconv.FormatInt(teamID, 10))
	query.Set("last", strconv.Itoa(last))
	query.Set("status", "FT")

	items, _, err := getList[FixtureItem](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch recent fixtures team_id=%d: %w", teamID, err)
	}
	return items, nil
}

// fetchTeamPlayerStats returns season statistics for every player of a team,
// following pagination up to a small page cap.
func (c *Client) fetchTeamPlayerStats(ctx context.Context, teamID int64, season int) ([]PlayerSeasonItem, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	out := make([]PlayerSeasonItem, 0, 32)
	for page := 1; page <= playerStatsMaxPages; page++ {
		query := url.Values{}
		query.Set("team", strconv.FormatInt(teamID, 10))
		query.Set("season", strconv.Itoa(season))
		query.Set("page", strconv.Itoa(page))

		items, paging, err := getList[PlayerSeasonItem](ctx, c, "/players", query)
		if err != nil {
			return nil, fmt.Errorf("fetch team player stats team_id=%d season=%d page=%d: %w", teamID, season, page, err)
		}
		out = append(out, items...)
		if paging.Total <= page {
			break
		}
	}

	return out, nil
}

// fetchTeamSquad returns the current roster for a team.
func (c *Client) fetchTeamSquad(ctx context.Context, teamID int64) ([]SquadItem, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := url.Values{}
	query.Set("team", strconv.FormatInt(teamID, 10))

	items, _, err := getList[SquadItem](ctx, c, "/players/squads", query)
	if err != nil {
		return nil, fmt.Errorf("fetch squad team_id=%d: %w", teamID, err)
	}
	return items, nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, Paging, error) {
	var env envelope[T]
	if err := c.doJSON(ctx, path, query, &env); err != nil {
		return nil, Paging{}, err
	}
	if msg := apiErrorText(env.Errors); msg != "" {
		return nil, env.Paging, fmt.Errorf("provider rejected request: %s", msg)
	}
	return env.Response, env.Paging, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + query.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.breaker != nil {
			if reqErr != nil && isCircuitFailure(reqErr) {
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

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.apiKey)

		var retryAfter time.Duration
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballAPITransient, resp.StatusCode, abbreviateBody(raw))
				if resp.StatusCode == http.StatusTooManyRequests {
					retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
				}
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		if retryAfter > backoff {
			backoff = retryAfter
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// apiErrorText flattens the envelope errors field, which the provider sends
// as an empty array on success and an object of code->message on failure.
func apiErrorText(errs any) string {
	switch v := errs.(type) {
	case nil:
		return ""
	case []any:
		if len(v) == 0 {
			return ""
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, v[key]))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" || key == "" {
		return value
	}
	return strings.ReplaceAll(value, key, "REDACTED")
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFootballAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
