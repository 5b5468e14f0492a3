package apifootball

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
	"github.com/riskibarqy/football-sync/internal/platform/logging"
	"github.com/riskibarqy/football-sync/internal/platform/resilience"
	"github.com/riskibarqy/football-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL  = "https://v3.football.api-sports.io"
	maxResponseSize = 6 << 20
)

var errTransient = crerr.New("sports provider transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Host           string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to an API-Football compatible provider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	host           string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		host:           strings.TrimSpace(cfg.Host),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		sleep:          resilience.NewPacer().Wait,
	}
}

// FetchPage returns one page of resource. Provider rejections come back in
// ExternalPage.Errors with a nil error; only transport failures return an error.
func (c *Client) FetchPage(ctx context.Context, resource string, params map[string]string, page int) (usecase.ExternalPage, error) {
	query := make(map[string]string, len(params)+1)
	for key, value := range params {
		query[key] = value
	}
	if page > 1 && resource != usecase.ResourceSquads {
		query["page"] = strconv.Itoa(page)
	}

	if resource == usecase.ResourceSquads {
		var env squadEnvelope
		if err := c.doJSON(ctx, resource, query, &env); err != nil {
			return usecase.ExternalPage{}, fmt.Errorf("fetch %s page=%d: %w", resource, page, err)
		}
		return usecase.ExternalPage{
			Records: flattenSquads(env.Response),
			Current: 1,
			Total:   1,
			Errors:  usecase.ProviderErrors(env.Errors),
		}, nil
	}

	var env pageEnvelope
	if err := c.doJSON(ctx, resource, query, &env); err != nil {
		return usecase.ExternalPage{}, fmt.Errorf("fetch %s page=%d: %w", resource, page, err)
	}

	records := make([]usecase.ExternalRecord, 0, len(env.Response))
	for _, item := range env.Response {
		records = append(records, usecase.ExternalRecord(item))
	}

	return usecase.ExternalPage{
		Records: records,
		Current: env.Paging.Current,
		Total:   env.Paging.Total,
		Errors:  usecase.ProviderErrors(env.Errors),
	}, nil
}

// FetchTeams lists the teams of a league season. Any provider rejection is an error here.
func (c *Client) FetchTeams(ctx context.Context, leagueID int64, season int) ([]usecase.ExternalTeam, error) {
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	}
	var env teamsEnvelope
	if err := c.doJSON(ctx, "/teams", query, &env); err != nil {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w", leagueID, season, err)
	}
	if len(env.Errors) > 0 {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w: %s", leagueID, season, usecase.ErrProviderRejected, usecase.ProviderErrors(env.Errors).String())
	}

	out := make([]usecase.ExternalTeam, 0, len(env.Response))
	for _, item := range env.Response {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.Team.ID,
			Name:       strings.TrimSpace(item.Team.Name),
			Code:       strings.TrimSpace(item.Team.Code),
			Country:    strings.TrimSpace(item.Team.Country),
			National:   item.Team.National,
			LogoURL:    strings.TrimSpace(item.Team.Logo),
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sports provider circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: sports provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
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

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode provider payload body=%s", abbreviateBody(raw))
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.roundTrip(ctx, fullURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Mark(crerr.Newf("send request: %s", c.sanitize(err.Error())), errTransient)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw)), errTransient)
		default:
			return nil, crerr.Newf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt+1)*time.Second); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "sports provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.host != "" {
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.host)
	} else {
		req.Header.Set("x-apisports-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("x-ratelimit-requests-remaining"); remaining != "" {
		c.logger.DebugContext(ctx, "sports provider quota", "requests_remaining", remaining)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseSize)); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return value
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
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
