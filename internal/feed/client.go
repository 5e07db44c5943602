// Package feed fetches public YouTube video feeds and normalizes them into
// canonical video records.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grvbrk/tubepulse/internal/metrics"
)

const (
	DefaultBaseURL      = "https://www.youtube.com"
	DefaultUserAgent    = "AgenticYouTubeAutomation/1.0"
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
	DefaultRegion       = "US"

	feedPath = "/feeds/videos.xml"
)

// Kind discriminates between the upstream feed variants.
type Kind string

const (
	KindTrending Kind = "trending"
	KindChannel  Kind = "channel"
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	HTTPClient   *http.Client
	Logger       zerolog.Logger
}

// Client issues feed requests. It keeps no state between calls and is safe
// for concurrent use.
type Client struct {
	base      string
	userAgent string
	maxBody   int64
	http      *http.Client
	logger    zerolog.Logger
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:      base,
		userAgent: ua,
		maxBody:   maxBody,
		http:      hc,
		logger:    opts.Logger,
	}
}

// TrendingURL builds the most-popular feed URL for a region.
func (c *Client) TrendingURL(region string) string {
	if region == "" {
		region = DefaultRegion
	}
	q := url.Values{}
	q.Set("chart", "mostPopular")
	q.Set("hl", "en")
	q.Set("region", region)
	return c.base + feedPath + "?" + q.Encode()
}

// ChannelURL builds the per-channel feed URL.
func (c *Client) ChannelURL(channelID string) string {
	q := url.Values{}
	q.Set("channel_id", channelID)
	return c.base + feedPath + "?" + q.Encode()
}

// FetchTrending returns the raw trending feed document for region.
func (c *Client) FetchTrending(ctx context.Context, region string) ([]byte, error) {
	return c.fetch(ctx, KindTrending, c.TrendingURL(region))
}

// FetchChannel returns the raw feed document for channelID.
func (c *Client) FetchChannel(ctx context.Context, channelID string) ([]byte, error) {
	return c.fetch(ctx, KindChannel, c.ChannelURL(channelID))
}

func (c *Client) fetch(ctx context.Context, kind Kind, target string) ([]byte, error) {
	start := time.Now()
	logger := c.logger.With().Str("kind", string(kind)).Str("url", target).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		metrics.RecordFeedFetch(string(kind), "error", time.Since(start))
		return nil, &FetchError{Kind: kind, URL: target, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		fe := &FetchError{Kind: kind, URL: target, Err: err}
		outcome := "error"
		if fe.Timeout() {
			outcome = "timeout"
		}
		metrics.RecordFeedFetch(string(kind), outcome, time.Since(start))
		logger.Warn().Err(err).Str("outcome", outcome).Msg("feed request failed")
		return nil, fe
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		metrics.RecordFeedFetch(string(kind), "status_"+statusClass(resp.StatusCode), time.Since(start))
		logger.Warn().Int("status", resp.StatusCode).Msg("feed upstream returned non-success status")
		return nil, &FetchError{Kind: kind, URL: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		fe := &FetchError{Kind: kind, URL: target, Err: fmt.Errorf("read body: %w", err)}
		metrics.RecordFeedFetch(string(kind), "error", time.Since(start))
		return nil, fe
	}
	if int64(len(body)) > c.maxBody {
		metrics.RecordFeedFetch(string(kind), "too_large", time.Since(start))
		logger.Warn().Int64("limit", c.maxBody).Msg("feed body exceeds size limit")
		return nil, &FetchError{Kind: kind, URL: target, Err: ErrBodyTooLarge}
	}

	metrics.RecordFeedFetch(string(kind), "success", time.Since(start))
	logger.Debug().Int("bytes", len(body)).Dur("elapsed", time.Since(start)).Msg("feed fetched")
	return body, nil
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "other"
	}
}

func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
