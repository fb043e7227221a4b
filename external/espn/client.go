package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/gridironpool/pickstick/internal/platform/logging"
	"github.com/gridironpool/pickstick/internal/platform/resilience"
	"github.com/gridironpool/pickstick/internal/usecase"
)

const (
	defaultBaseURL   = "https://site.web.api.espn.com/apis/site/v2/sports/football/nfl"
	maxScoreboardLen = 4 << 20
)

var errESPNTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string              `json:"id"`
	Competitions []scoreboardContest `json:"competitions"`
}

type scoreboardContest struct {
	Competitors []scoreboardCompetitor `json:"competitors"`
	Status      scoreboardStatus       `json:"status"`
}

type scoreboardCompetitor struct {
	HomeAway string         `json:"homeAway"`
	Score    string         `json:"score"`
	Team     scoreboardTeam `json:"team"`
}

type scoreboardTeam struct {
	DisplayName string `json:"displayName"`
}

type scoreboardStatus struct {
	DisplayClock string               `json:"displayClock"`
	Period       int                  `json:"period"`
	Type         scoreboardStatusType `json:"type"`
}

type scoreboardStatusType struct {
	Completed bool   `json:"completed"`
	State     string `json:"state"`
}

// Fetch pulls one week's scoreboard and flattens it into feed events.
// Events without both competitors are skipped.
func (c *Client) Fetch(ctx context.Context, week int) ([]usecase.FeedEvent, error) {
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/scoreboard?week=%d", week), &envelope); err != nil {
		return nil, err
	}

	events := make([]usecase.FeedEvent, 0, len(envelope.Events))
	for _, ev := range envelope.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		contest := ev.Competitions[0]

		var home, away *scoreboardCompetitor
		for i := range contest.Competitors {
			switch contest.Competitors[i].HomeAway {
			case "home":
				home = &contest.Competitors[i]
			case "away":
				away = &contest.Competitors[i]
			}
		}
		if home == nil || away == nil {
			c.logger.WarnContext(ctx, "scoreboard event missing competitor", "event_id", ev.ID)
			continue
		}

		events = append(events, usecase.FeedEvent{
			ExternalKey:  ev.ID,
			HomeTeamName: home.Team.DisplayName,
			AwayTeamName: away.Team.DisplayName,
			HomeScore:    parseScore(home.Score),
			AwayScore:    parseScore(away.Score),
			Period:       periodLabel(contest.Status.Period, contest.Status.Type.Completed),
			Clock:        contest.Status.DisplayClock,
			IsLive:       contest.Status.Type.State == "in",
			IsComplete:   contest.Status.Type.Completed,
		})
	}
	return events, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: scoreboard provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errESPNTransient) {
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
		return fmt.Errorf("decode scoreboard payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.fetchOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errESPNTransient) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errESPNTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxScoreboardLen)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errESPNTransient, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("%w: scoreboard status=%d", errESPNTransient, resp.StatusCode)
		}
		return nil, fmt.Errorf("scoreboard status=%d", resp.StatusCode)
	}

	raw := make([]byte, buf.Len())
	copy(raw, buf.B)
	return raw, nil
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func parseScore(raw string) int {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return score
}

var periodNames = map[int]string{
	1: "1st Quarter",
	2: "2nd Quarter",
	3: "3rd Quarter",
	4: "4th Quarter",
	5: "Overtime",
}

func periodLabel(period int, completed bool) string {
	if completed {
		return "Final"
	}
	if name, ok := periodNames[period]; ok {
		return name
	}
	return ""
}
