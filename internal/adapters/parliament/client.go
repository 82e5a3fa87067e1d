// Package parliament provides a resilient client for the legislature's
// open-data API. Paging, rate pacing, retry/backoff and circuit breaking
// live here so the pipelines above only see typed payloads
package parliament

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	perr "hansard/internal/platform/errors"
	"hansard/internal/platform/logger"
)

const (
	baseURLDefault      = "https://api.openparliament.ca"
	defaultTimeout      = 15 * time.Second
	defaultUA           = "hansard-sync"
	defaultMaxRetry     = 4
	defaultTimeoutRetry = 2
	defaultRetryBase    = 500 * time.Millisecond
	defaultRequestGap   = 500 * time.Millisecond
	backoffCeiling      = 30 * time.Second
	errorBodyTailLimit  = 2048
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Retry config for rate limited and transient responses.
	// Timed out exchanges burn the separate, tighter timeout budget
	MaxRetries        int
	MaxTimeoutRetries int
	RetryBase         time.Duration

	// RequestGap is the fixed inter-request delay; the same limiter
	// paces batches since every fetch funnels through it
	RequestGap time.Duration
}

// Client is a paced, retrying HTTP client for the parliamentary API
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     logger.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.MaxTimeoutRetries <= 0 {
		o.MaxTimeoutRetries = defaultTimeoutRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RequestGap < 0 {
		o.RequestGap = defaultRequestGap
	}

	lim := rate.NewLimiter(rate.Inf, 1)
	if o.RequestGap > 0 {
		lim = rate.NewLimiter(rate.Every(o.RequestGap), 1)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "parliament-api",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// rate limiting and absent entities are not service failures
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			switch perr.CodeOf(err) {
			case perr.ErrorCodeNotFound, perr.ErrorCodeTooManyRequests:
				return true
			}
			return false
		},
	})

	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: lim,
		breaker: breaker,
		log:     *logger.Named("parliament"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// FetchResource fetches one resource path and returns the raw payload.
// A 404 comes back as a NotFound error; callers treat it as entity absent
func (c *Client) FetchResource(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, path)
}

// FetchPage fetches one page of a listing endpoint and reports whether the
// source signals further pages
func (c *Client) FetchPage(
	ctx context.Context,
	endpoint string,
	filters map[string]string,
	offset, limit int,
) ([]json.RawMessage, bool, error) {
	vals := url.Values{}
	for k, v := range filters {
		vals.Set(k, v)
	}
	if limit > 0 {
		vals.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		vals.Set("offset", strconv.Itoa(offset))
	}
	path := endpoint
	if enc := vals.Encode(); enc != "" {
		path += "?" + enc
	}

	body, err := c.do(ctx, path)
	if err != nil {
		return nil, false, err
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false, perr.Wrapf(err, perr.ErrorCodeJSON, "parliament page decode failed path=%s", endpoint)
	}
	hasMore := env.Pagination != nil && env.Pagination.NextURL != nil
	return env.Objects, hasMore, nil
}

// do issues a paced GET with retries for 429, timeouts and transient 5xx.
// Timeouts are counted apart from other transients since a slow upstream
// deserves fewer chances than a flapping one
func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	attempts := 0
	timeouts := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := c.now()
		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.roundTrip(ctx, path)
		})
		lat := c.now().Sub(start)

		if err == nil {
			c.log.Debug().Str("path", path).Int("attempt", attempts).Dur("latency", lat).Msg("parliament http ok")
			return body, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "parliament circuit open")
		}

		switch perr.CodeOf(err) {
		case perr.ErrorCodeNotFound:
			return nil, err
		case perr.ErrorCodeTooManyRequests, perr.ErrorCodeUnavailable:
			used, bound := &attempts, c.opts.MaxRetries
			if isTimeout(err) {
				used, bound = &timeouts, c.opts.MaxTimeoutRetries
			}
			if *used >= bound {
				return nil, err
			}
			back := c.backoff(*used)
			c.log.Warn().
				Str("path", path).
				Int("attempt", *used).
				Dur("retry_in", back).
				Uint16("code", uint16(perr.CodeOf(err))).
				Msg("parliament retrying")
			c.sleep(back)
			*used++
			continue
		default:
			return nil, err
		}
	}
}

// roundTrip performs a single HTTP exchange and classifies the outcome
func (c *Client) roundTrip(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+path, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "parliament new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// transport errors and timeouts both surface as Unavailable;
		// do splits them on the timeout predicate when retrying
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "parliament do failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "parliament body read failed")
		}
		return body, nil
	case http.StatusNotFound:
		return nil, perr.Newf(perr.ErrorCodeNotFound, "parliament resource absent path=%s", path)
	case http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "parliament rate limited")
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "parliament transient server error status=%d", resp.StatusCode)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyTailLimit))
		return nil, perr.Newf(perr.ErrorCodeUnknown,
			"parliament unexpected status %d body %s", resp.StatusCode, string(tail))
	}
}

// isTimeout reports whether err stems from a deadline or a timing out
// net error anywhere in the chain
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(backoffCeiling / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}
