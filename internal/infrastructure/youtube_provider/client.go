// Package youtubeprovider implements provider.BuzzProvider against the
// YouTube Data API v3.
package youtubeprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"ytbuzz/internal/provider"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// Upstream caps batch endpoints at 50 ids per call.
	maxBatchSize = 50

	defaultCommentCount = 20
	maxCommentCount     = 100

	// 3 attempts total for transient failures, exponential 1s..10s.
	maxRetryAttempts     = 3
	defaultRetryInitial  = time.Second
	defaultRetryMaxWait  = 10 * time.Second
	defaultClientTimeout = 30 * time.Second
)

type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL string

	// Requests per second against the upstream; <=0 disables pacing.
	RatePerSec float64
	RateBurst  int

	// Retry backoff bounds; zero values take the defaults above.
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

type Client struct {
	client       HTTPClient
	baseURL      url.URL
	limiter      *rate.Limiter
	retryInitial time.Duration
	retryMaxWait time.Duration
	logger       Logger
}

// NewHTTPClient returns the production http.Client with the per-call
// timeout applied.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &http.Client{Timeout: timeout}
}

func NewClient(httpClient HTTPClient, cfg Config, logger Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid youtube base url: %w", err)
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	retryInitial := cfg.RetryInitialInterval
	if retryInitial <= 0 {
		retryInitial = defaultRetryInitial
	}
	retryMaxWait := cfg.RetryMaxInterval
	if retryMaxWait <= 0 {
		retryMaxWait = defaultRetryMaxWait
	}

	return &Client{
		client:       httpClient,
		baseURL:      *u,
		limiter:      rate.NewLimiter(limit, burst),
		retryInitial: retryInitial,
		retryMaxWait: retryMaxWait,
		logger:       logger,
	}, nil
}

// provider.BuzzProvider
func (c *Client) SearchVideos(ctx context.Context, apiKey, keyword string, publishedAfter *time.Time) ([]string, error) {
	c.logger.Infof("youtube: searching videos for keyword %q", keyword)

	params := url.Values{}
	params.Set("part", "id")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(maxBatchSize))
	params.Set("key", apiKey)
	if publishedAfter != nil {
		params.Set("publishedAfter", publishedAfter.UTC().Format(time.RFC3339))
	}

	var data searchResponse
	if err := c.getJSON(ctx, "search", params, &data, "video search"); err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		if item.ID.VideoID != "" {
			videoIDs = append(videoIDs, item.ID.VideoID)
		}
	}

	c.logger.Infof("youtube: found %d videos for keyword %q", len(videoIDs), keyword)
	return videoIDs, nil
}

func (c *Client) GetVideoDetails(ctx context.Context, apiKey string, videoIDs []string) ([]provider.VideoItem, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	c.logger.Infof("youtube: fetching details for %d videos", len(videoIDs))

	items := make([]provider.VideoItem, 0, len(videoIDs))
	for _, batch := range chunk(videoIDs, maxBatchSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(batch, ","))
		params.Set("key", apiKey)

		var data videoListResponse
		if err := c.getJSON(ctx, "videos", params, &data, "video details"); err != nil {
			return nil, err
		}
		for _, item := range data.Items {
			items = append(items, item.toProviderItem())
		}
	}

	return items, nil
}

func (c *Client) GetChannelDetails(ctx context.Context, apiKey string, channelIDs []string) (map[string]provider.ChannelInfo, error) {
	unique := dedupe(channelIDs)
	if len(unique) == 0 {
		return map[string]provider.ChannelInfo{}, nil
	}
	c.logger.Infof("youtube: fetching details for %d channels", len(unique))

	channels := make(map[string]provider.ChannelInfo, len(unique))
	for _, batch := range chunk(unique, maxBatchSize) {
		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(batch, ","))
		params.Set("key", apiKey)

		var data channelListResponse
		if err := c.getJSON(ctx, "channels", params, &data, "channel details"); err != nil {
			return nil, err
		}
		for id, info := range data.toProviderMap() {
			channels[id] = info
		}
	}

	return channels, nil
}

func (c *Client) GetVideoComments(ctx context.Context, apiKey, videoID string, maxResults int) ([]provider.Comment, error) {
	if maxResults <= 0 {
		maxResults = defaultCommentCount
	}
	if maxResults > maxCommentCount {
		maxResults = maxCommentCount
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("key", apiKey)

	var data commentThreadsResponse
	if err := c.getJSON(ctx, "commentThreads", params, &data, "comment fetch"); err != nil {
		var upstream *provider.UpstreamError
		if errors.As(err, &upstream) && upstream.Reason == "commentsDisabled" {
			c.logger.Infof("youtube: comments disabled for video %s", videoID)
			return []provider.Comment{}, nil
		}
		return nil, err
	}

	return data.toProviderComments(), nil
}

func (c *Client) ListCaptions(ctx context.Context, apiKey, videoID string) ([]provider.CaptionTrack, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("key", apiKey)

	var data captionListResponse
	if err := c.getJSON(ctx, "captions", params, &data, "caption list"); err != nil {
		return nil, err
	}

	return data.toProviderTracks(), nil
}

// getJSON performs one upstream GET with pacing, retry and error
// classification. Transient failures (network errors, 5xx) are retried up
// to maxRetryAttempts; everything else propagates immediately.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, target any, opName string) error {
	reqURL := c.baseURL
	reqURL.Path = path.Join(reqURL.Path, endpoint)
	reqURL.RawQuery = params.Encode()

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warnf("youtube: %s request failed: %v", opName, err)
			return fmt.Errorf("request %s: %w", opName, err)
		}
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil {
				c.logger.Errorf("youtube: close response body: %v", cerr)
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s response: %w", opName, err)
		}

		if resp.StatusCode != http.StatusOK {
			classified := c.classifyError(resp.StatusCode, body, opName)
			var upstream *provider.UpstreamError
			if errors.As(classified, &upstream) && upstream.Temporary {
				return classified
			}
			return backoff.Permanent(classified)
		}

		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", opName, err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxInterval = c.retryMaxWait

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetryAttempts-1), ctx))
}

// classifyError turns a non-200 response into exactly one taxonomy
// variant. The structured reason field wins over the status code.
func (c *Client) classifyError(status int, body []byte, opName string) error {
	reason, message := "", ""

	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		message = payload.Error.Message
		if len(payload.Error.Errors) > 0 {
			reason = payload.Error.Errors[0].Reason
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}

	c.logger.Errorf("youtube: %s failed: status=%d reason=%s message=%s",
		opName, status, reason, message)

	switch reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
		return fmt.Errorf("%s: %w", opName, provider.ErrQuotaExceeded)
	case "keyInvalid", "keyExpired", "badRequest":
		return fmt.Errorf("%s: %w", opName, provider.ErrAuthFailed)
	case "accessNotConfigured", "forbidden", "ipRefererBlocked":
		// The credential or project is unusable either way.
		return fmt.Errorf("%s: %w", opName, provider.ErrAuthFailed)
	}

	if status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", opName, provider.ErrAuthFailed)
	}

	return &provider.UpstreamError{
		StatusCode: status,
		Reason:     reason,
		Message:    fmt.Sprintf("%s: %s", opName, message),
		Temporary:  status >= 500 && status < 600,
	}
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
