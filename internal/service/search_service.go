// Package service contains the buzz-video aggregation pipeline: the single
// entry point that turns a keyword into a ranked, filtered, cached list of
// videos with derived metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ytbuzz/internal/cache"
	"ytbuzz/internal/metrics"
	"ytbuzz/internal/models"
	"ytbuzz/internal/provider"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

type KeyPool interface {
	Current() (string, error)
	Rotate() bool
	Size() int
}

type MemoryCache interface {
	Get(key string) (*models.SearchResult, bool)
	Set(key string, result *models.SearchResult)
}

// CacheRepository is the durable tier. It may be absent (nil); the
// pipeline treats it as a best-effort optimization either way.
type CacheRepository interface {
	GetResult(ctx context.Context, cacheKey string) (*models.SearchResult, error)
	SaveResult(ctx context.Context, cacheKey, keyword string, filters *models.SearchFilters, result *models.SearchResult, ttl time.Duration) error
}

type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
}

type Config struct {
	// Durable-tier TTLs. Empty result sets get the shorter one so a dead
	// keyword recovers quickly once content appears.
	CacheTTL      time.Duration
	EmptyCacheTTL time.Duration
}

type SearchService struct {
	provider provider.BuzzProvider
	keys     KeyPool
	memory   MemoryCache
	durable  CacheRepository
	cfg      Config
	logger   Logger
	now      func() time.Time
}

func NewSearchService(
	prov provider.BuzzProvider,
	keys KeyPool,
	memory MemoryCache,
	durable CacheRepository,
	cfg Config,
	logger Logger,
) *SearchService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.EmptyCacheTTL <= 0 {
		cfg.EmptyCacheTTL = time.Hour
	}

	return &SearchService{
		provider: prov,
		keys:     keys,
		memory:   memory,
		durable:  durable,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// SearchBuzzVideos runs one search request: durable cache, then memory
// cache, then the staged upstream calls with credential rotation on quota
// exhaustion. The returned result is complete and consistent or the call
// fails with a classified error; there is no partial-success mode beyond
// per-record drops during build.
func (s *SearchService) SearchBuzzVideos(ctx context.Context, keyword string, filters *models.SearchFilters) (*models.SearchResult, error) {
	filters = filters.Normalized()
	cacheKey := cache.Key(keyword, filters)

	if s.durable != nil {
		cached, err := s.durable.GetResult(ctx, cacheKey)
		if err != nil {
			s.logger.Warnf("search: durable cache read failed, continuing without: %v", err)
		} else if cached != nil {
			// Keep hot keys out of the durable store for a while.
			s.memory.Set(cacheKey, cached)
			return cached, nil
		}
	}

	if cached, ok := s.memory.Get(cacheKey); ok {
		s.logger.Infof("search: memory cache hit for keyword %q", keyword)
		return cached, nil
	}

	s.logger.Infof("search: cache miss, querying upstream for keyword %q", keyword)

	poolSize := s.keys.Size()
	if poolSize == 0 {
		return nil, models.ErrNoAPIKeys
	}

	var publishedAfter *time.Time
	if filters != nil && filters.PeriodDays != nil {
		cutoff := s.now().UTC().AddDate(0, 0, -*filters.PeriodDays)
		publishedAfter = &cutoff
	}

	// Bounded rotation loop: at most one full pass per credential. A
	// different credential may sit in a different quota bucket, so the
	// whole chain reruns, not just the failed call.
	for attempt := 0; attempt < poolSize; attempt++ {
		result, err := s.runSearch(ctx, keyword, filters, publishedAfter)
		if err != nil {
			if errors.Is(err, provider.ErrQuotaExceeded) && s.keys.Rotate() {
				s.logger.Warnf("search: quota exceeded, rerunning with next API key for keyword %q", keyword)
				continue
			}
			return nil, err
		}

		s.persist(ctx, cacheKey, keyword, filters, result)
		return result, nil
	}

	return nil, fmt.Errorf("search %q: %w", keyword, provider.ErrQuotaExceeded)
}

// runSearch is one full aggregation pass under the current credential.
func (s *SearchService) runSearch(
	ctx context.Context,
	keyword string,
	filters *models.SearchFilters,
	publishedAfter *time.Time,
) (*models.SearchResult, error) {
	apiKey, err := s.keys.Current()
	if err != nil {
		return nil, err
	}

	videoIDs, err := s.provider.SearchVideos(ctx, apiKey, keyword, publishedAfter)
	if err != nil {
		return nil, err
	}

	searchedAt := s.now().UTC().Format(time.RFC3339)

	if len(videoIDs) == 0 {
		s.logger.Infof("search: no videos found for keyword %q", keyword)
		return &models.SearchResult{
			Keyword:    keyword,
			SearchedAt: searchedAt,
			Videos:     []models.Video{},
		}, nil
	}

	items, err := s.provider.GetVideoDetails(ctx, apiKey, videoIDs)
	if err != nil {
		return nil, err
	}

	channelIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.ChannelID != "" {
			channelIDs = append(channelIDs, item.ChannelID)
		}
	}

	channels, err := s.provider.GetChannelDetails(ctx, apiKey, channelIDs)
	if err != nil {
		return nil, err
	}

	buildTime := s.now().UTC()
	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		video, err := s.buildVideo(item, channels, buildTime)
		if err != nil {
			// One malformed item must not sink the result set.
			s.logger.Warnf("search: dropping video %q: %v", item.ID, err)
			continue
		}
		if matchesFilters(video, filters) {
			videos = append(videos, video)
		}
	}

	sortByImpact(videos)

	s.logger.Infof("search: completed with %d videos for keyword %q", len(videos), keyword)

	return &models.SearchResult{
		Keyword:    keyword,
		SearchedAt: searchedAt,
		Videos:     videos,
	}, nil
}

// buildVideo fuses one video-detail payload with its channel info and
// computes the derived metrics.
func (s *SearchService) buildVideo(
	item provider.VideoItem,
	channels map[string]provider.ChannelInfo,
	now time.Time,
) (models.Video, error) {
	if item.ID == "" {
		return models.Video{}, fmt.Errorf("missing video id")
	}

	viewCount, err := parseCount(item.ViewCount)
	if err != nil {
		return models.Video{}, fmt.Errorf("view count: %w", err)
	}
	likeCount, err := parseCount(item.LikeCount)
	if err != nil {
		return models.Video{}, fmt.Errorf("like count: %w", err)
	}

	channelInfo := channels[item.ChannelID]

	channelName := channelInfo.Title
	if channelName == "" {
		channelName = item.ChannelTitle
	}

	daysAgo, err := metrics.DaysSince(item.PublishedAt, now)
	if err != nil {
		// Data-quality warning only; the video still ranks, as brand new.
		s.logger.Warnf("search: video %s has invalid publishedAt: %v", item.ID, err)
	}

	return models.Video{
		VideoID:          item.ID,
		URL:              watchURLPrefix + item.ID,
		Title:            item.Title,
		PublishedAt:      item.PublishedAt,
		ThumbnailURL:     item.ThumbnailURL,
		ViewCount:        viewCount,
		LikeCount:        likeCount,
		ChannelID:        item.ChannelID,
		ChannelName:      channelName,
		SubscriberCount:  channelInfo.SubscriberCount,
		ChannelCreatedAt: channelInfo.PublishedAt,
		DaysAgo:          daysAgo,
		DailyAvgViews:    metrics.DailyAvgViews(viewCount, daysAgo),
		ImpactRatio:      metrics.ImpactRatio(viewCount, channelInfo.SubscriberCount),
		LikeRatio:        metrics.LikeRatio(likeCount, viewCount),
	}, nil
}

// persist writes through both cache tiers. Failures are logged and
// swallowed; caching is never a dependency for correctness.
func (s *SearchService) persist(ctx context.Context, cacheKey, keyword string, filters *models.SearchFilters, result *models.SearchResult) {
	s.memory.Set(cacheKey, result)

	if s.durable == nil {
		return
	}

	ttl := s.cfg.CacheTTL
	if len(result.Videos) == 0 {
		ttl = s.cfg.EmptyCacheTTL
	}

	if err := s.durable.SaveResult(ctx, cacheKey, keyword, filters, result, ttl); err != nil {
		s.logger.Warnf("search: durable cache write failed: %v", err)
	}
}

// parseCount decodes an upstream counter. The field arrives as a string
// and may be absent entirely, which counts as 0.
func parseCount(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative counter %d", n)
	}
	return n, nil
}

// matchesFilters applies the inclusive bound checks. Period filtering
// already happened upstream via publishedAfter.
func matchesFilters(v models.Video, f *models.SearchFilters) bool {
	if f == nil {
		return true
	}
	if f.ImpactMin != nil && v.ImpactRatio < *f.ImpactMin {
		return false
	}
	if f.ImpactMax != nil && v.ImpactRatio > *f.ImpactMax {
		return false
	}
	if f.SubscriberMin != nil && v.SubscriberCount < *f.SubscriberMin {
		return false
	}
	if f.SubscriberMax != nil && v.SubscriberCount > *f.SubscriberMax {
		return false
	}
	return true
}

// sortByImpact orders by impact ratio descending; ties break by view count
// descending, then video id, so equal queries always rank identically.
func sortByImpact(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].ImpactRatio != videos[j].ImpactRatio {
			return videos[i].ImpactRatio > videos[j].ImpactRatio
		}
		if videos[i].ViewCount != videos[j].ViewCount {
			return videos[i].ViewCount > videos[j].ViewCount
		}
		return videos[i].VideoID < videos[j].VideoID
	})
}
