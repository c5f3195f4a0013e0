package snookerorg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/snooker-stats/internal/platform/logging"
	"github.com/riskibarqy/snooker-stats/internal/platform/resilience"
)

const (
	defaultBaseURL    = "https://api.snooker.org/"
	headerRequestedBy = "X-Requested-By"

	defaultTimeout       = 30 * time.Second
	defaultRateLimitWait = 60 * time.Second
)

type ClientConfig struct {
	HTTPClient    *http.Client
	BaseURL       string
	RequestedBy   string
	Timeout       time.Duration
	RateLimitWait time.Duration
	Logger        *logging.Logger
}

// Client wraps outbound calls to the snooker.org API. The provider rate
// limits with a bare 403; the client waits the limiter out rather than
// backing off exponentially, so a single call can block for minutes.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	requestedBy   string
	rateLimitWait time.Duration
	logger        *logging.Logger
	flight        resilience.SingleFlight
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
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	rateLimitWait := cfg.RateLimitWait
	if rateLimitWait <= 0 {
		rateLimitWait = defaultRateLimitWait
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		requestedBy:   strings.TrimSpace(cfg.RequestedBy),
		rateLimitWait: rateLimitWait,
		logger:        logger,
	}
}

// CurrentSeason fetches the current-season payload (t=20).
func (c *Client) CurrentSeason(ctx context.Context) (map[string]any, error) {
	payload, err := c.getJSON(ctx, url.Values{"t": {"20"}}, "current_season")
	if err != nil {
		return nil, err
	}
	return firstObject(payload), nil
}

// Rankings fetches one ranking table for a season (rt=<type>&s=<season>).
func (c *Client) Rankings(ctx context.Context, season int, rankingType string) ([]map[string]any, error) {
	params := url.Values{
		"rt": {rankingType},
		"s":  {strconv.Itoa(season)},
	}
	payload, err := c.getJSON(ctx, params, "rankings")
	if err != nil {
		return nil, err
	}
	return objectList(payload), nil
}

// UpcomingMatches fetches upcoming fixtures (t=14), optionally tour-filtered.
func (c *Client) UpcomingMatches(ctx context.Context, tour string) ([]map[string]any, error) {
	params := url.Values{"t": {"14"}}
	if tour != "" {
		params.Set("tr", tour)
	}
	payload, err := c.getJSON(ctx, params, "upcoming_matches")
	if err != nil {
		return nil, err
	}
	return objectList(payload), nil
}

// EventsInSeason fetches event metadata for a season (t=5&s=<season>),
// optionally tour-filtered.
func (c *Client) EventsInSeason(ctx context.Context, season int, tour string) ([]map[string]any, error) {
	params := url.Values{
		"t": {"5"},
		"s": {strconv.Itoa(season)},
	}
	if tour != "" {
		params.Set("tr", tour)
	}
	payload, err := c.getJSON(ctx, params, "events_in_season")
	if err != nil {
		return nil, err
	}
	return objectList(payload), nil
}

// CurrentMatches fetches near-live matches (t=17), optionally tour-filtered.
func (c *Client) CurrentMatches(ctx context.Context, tour string) ([]map[string]any, error) {
	params := url.Values{"t": {"17"}}
	if tour != "" {
		params.Set("tr", tour)
	}
	payload, err := c.getJSON(ctx, params, "current_matches")
	if err != nil {
		return nil, err
	}
	return objectList(payload), nil
}

// MatchesOfEvent fetches every match of one event (t=6&e=<event>).
func (c *Client) MatchesOfEvent(ctx context.Context, eventID int) ([]map[string]any, error) {
	params := url.Values{
		"t": {"6"},
		"e": {strconv.Itoa(eventID)},
	}
	payload, err := c.getJSON(ctx, params, "matches_of_event")
	if err != nil {
		return nil, err
	}
	return objectList(payload), nil
}

// Player fetches one player's details (p=<id>).
func (c *Client) Player(ctx context.Context, playerID int) (map[string]any, error) {
	payload, err := c.getJSON(ctx, url.Values{"p": {strconv.Itoa(playerID)}}, "player")
	if err != nil {
		return nil, err
	}
	return firstObject(payload), nil
}

// PacedPlayerFetch fetches players one at a time with a fixed delay between
// requests, to stay under the provider's informal rate limits even when no
// 403 has been seen yet. Cancellation mid-batch returns the entries fetched
// so far together with the context error; the caller decides what to keep.
func (c *Client) PacedPlayerFetch(ctx context.Context, playerIDs []int, delay time.Duration) (map[int]map[string]any, error) {
	out := make(map[int]map[string]any, len(playerIDs))
	total := len(playerIDs)
	c.logger.DebugContext(ctx, "paced player fetch started", "player_count", total, "delay", delay)

	for idx, playerID := range playerIDs {
		payload, err := c.Player(ctx, playerID)
		if err != nil {
			return out, crerr.Wrapf(err, "paced fetch player=%d progress=%d/%d", playerID, idx+1, total)
		}
		out[playerID] = payload
		c.logger.DebugContext(ctx, "paced player fetch progress",
			"player_id", playerID,
			"fetched", len(out),
			"total", total,
		)

		if idx == total-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.DebugContext(ctx, "paced player fetch completed", "fetched", len(out))
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, params url.Values, endpoint string) (any, error) {
	fullURL := c.baseURL
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return c.executeRequest(ctx, fullURL, endpoint)
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}

	var payload any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrapf(err, "decode %s payload", endpoint)
	}
	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	attempt := 0
	for {
		attempt++
		start := time.Now()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, crerr.Wrapf(err, "build %s request", endpoint)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set(headerRequestedBy, c.requestedBy)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, crerr.Wrapf(err, "%s request failed attempt=%d", endpoint, attempt)
		}

		if resp.StatusCode == http.StatusForbidden {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
			_ = resp.Body.Close()
			c.logger.WarnContext(ctx, "api rate limited, retrying after wait",
				"endpoint", endpoint,
				"attempt", attempt,
				"wait", c.rateLimitWait,
			)
			timer := time.NewTimer(c.rateLimitWait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			continue
		}

		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, crerr.Wrapf(readErr, "read %s response body", endpoint)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, crerr.Newf("%s request status=%d body=%s", endpoint, resp.StatusCode, abbreviateBody(raw))
		}

		c.logger.DebugContext(ctx, "api request succeeded",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"attempt", attempt,
		)
		return raw, nil
	}
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= maxLen {
		return body
	}
	return fmt.Sprintf("%s... (%d bytes)", body[:maxLen], len(body))
}
