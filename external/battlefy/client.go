package battlefy

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/bracket-exporter/internal/platform/logging"
	"github.com/riskibarqy/bracket-exporter/internal/platform/resilience"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL      = "https://api.battlefy.com"
	defaultCDNBaseURL   = "https://dtmwra1jsgyb0.cloudfront.net"
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 16 << 20
	defaultUserAgent    = "bracket-exporter/1.0"
)

type ClientConfig struct {
	BaseURL    string
	CDNBaseURL string
	Timeout    time.Duration
	// InsecureSkipVerify disables TLS certificate checks. Opt-in only.
	InsecureSkipVerify bool
	UserAgent          string
	// RequestInterval is the minimum spacing between outgoing requests. Zero disables it.
	RequestInterval time.Duration
	MaxBodyBytes    int
	Logger          *logging.Logger
	CircuitBreaker  resilience.BreakerConfig
}

type Client struct {
	http       *fasthttp.Client
	baseURL    string
	cdnBaseURL string
	timeout    time.Duration
	userAgent  string
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cdnBaseURL := strings.TrimRight(strings.TrimSpace(cfg.CDNBaseURL), "/")
	if cdnBaseURL == "" {
		cdnBaseURL = defaultCDNBaseURL
	}

	var limiter *rate.Limiter
	if cfg.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}

	if cfg.InsecureSkipVerify {
		logger.Warn("battlefy client TLS verification disabled")
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBody,
			MaxConnsPerHost:     32,
			TLSConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicit operator opt-out
			},
		},
		baseURL:    baseURL,
		cdnBaseURL: cdnBaseURL,
		timeout:    timeout,
		userAgent:  userAgent,
		limiter:    limiter,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

// BaseURL returns the API base the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a GET to fullURL and returns the body of a 200 response.
// Concurrent calls for the same URL share one request and one breaker slot.
func (c *Client) get(ctx context.Context, fullURL, accept string) ([]byte, error) {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "battlefy circuit breaker rejected request", "url", fullURL, "state", c.breaker.State())
			return nil, crerr.Wrapf(ErrCircuitOpen, "GET %s", fullURL)
		}
		raw, reqErr := c.executeRequest(ctx, fullURL, accept)
		c.breaker.Record(isUpstreamFailure(reqErr))
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, accept string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crerr.Wrapf(ErrNetwork, "GET %s: %v", fullURL, err)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, crerr.Wrapf(ErrNetwork, "GET %s: rate wait: %v", fullURL, err)
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", accept)

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		c.logger.WarnContext(ctx, "battlefy request failed", "url", fullURL, "error", err)
		return nil, crerr.Wrapf(ErrNetwork, "GET %s: %v", fullURL, err)
	}

	status := resp.StatusCode()
	c.logger.DebugContext(ctx, "battlefy request done", "url", fullURL, "status", status, "duration", time.Since(started))
	if status != http.StatusOK {
		return nil, &StatusError{
			StatusCode: status,
			URL:        fullURL,
			Body:       abbreviateBody(resp.Body()),
		}
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// deadline is the earlier of the per-request timeout and the context deadline.
func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func isUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	if crerr.Is(err, ErrNetwork) {
		return true
	}
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
