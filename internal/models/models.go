package models

import "fmt"

const (
	MinKeywordLength = 1
	MaxKeywordLength = 100
)

// REQUEST DTO
// comes from a client
type SearchRequest struct {
	Keyword string         `json:"keyword" example:"golang tutorial"`
	Filters *SearchFilters `json:"filters,omitempty"`
}

// checks incoming data from the client
func (r *SearchRequest) Validate() error {
	if len(r.Keyword) < MinKeywordLength {
		return fmt.Errorf("keyword must not be empty")
	}
	if len(r.Keyword) > MaxKeywordLength {
		return fmt.Errorf("keyword must be at most %d characters", MaxKeywordLength)
	}
	return nil
}

// SearchFilters holds the optional search bounds. A nil field means the
// bound is not applied.
type SearchFilters struct {
	PeriodDays    *int     `json:"periodDays,omitempty" example:"30"`
	ImpactMin     *float64 `json:"impactMin,omitempty" example:"1.0"`
	ImpactMax     *float64 `json:"impactMax,omitempty"`
	SubscriberMin *int64   `json:"subscriberMin,omitempty" example:"1000"`
	SubscriberMax *int64   `json:"subscriberMax,omitempty"`
}

// IsZero reports whether no bound is set.
func (f *SearchFilters) IsZero() bool {
	if f == nil {
		return true
	}
	return f.PeriodDays == nil &&
		f.ImpactMin == nil &&
		f.ImpactMax == nil &&
		f.SubscriberMin == nil &&
		f.SubscriberMax == nil
}

// Normalized collapses an all-unset filter set to nil so that "no filters"
// and "filters with nothing set" are the same value everywhere downstream,
// cache keys included.
func (f *SearchFilters) Normalized() *SearchFilters {
	if f.IsZero() {
		return nil
	}
	return f
}

// Video is one discovered video with its derived buzz metrics. Instances
// are built once per search pass and never mutated afterwards.
type Video struct {
	VideoID      string `json:"videoId" example:"dQw4w9WgXcQ"`
	URL          string `json:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Title        string `json:"title"`
	PublishedAt  string `json:"publishedAt" example:"2024-01-15T12:00:00Z"`
	ThumbnailURL string `json:"thumbnailUrl"`

	ViewCount int64 `json:"viewCount" example:"1000000"`
	LikeCount int64 `json:"likeCount" example:"50000"`

	ChannelID        string `json:"channelId"`
	ChannelName      string `json:"channelName"`
	SubscriberCount  int64  `json:"subscriberCount" example:"500000"`
	ChannelCreatedAt string `json:"channelCreatedAt"`

	// Derived facts, recomputed from the raw counters on every build.
	DaysAgo       int     `json:"daysAgo" example:"365"`
	DailyAvgViews float64 `json:"dailyAvgViews" example:"2739.73"`
	ImpactRatio   float64 `json:"impactRatio" example:"2.0"`
	LikeRatio     float64 `json:"likeRatio" example:"0.05"`
}

// SearchResult is the ordered outcome of one search, sorted by impact
// ratio descending.
type SearchResult struct {
	Keyword    string  `json:"keyword"`
	SearchedAt string  `json:"searchedAt" example:"2024-01-15T12:00:00Z"`
	Videos     []Video `json:"videos"`
}
