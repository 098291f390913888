// Package provider defines the contract between the aggregation service
// and the upstream video platform client.
package provider

import (
	"context"
	"time"
)

// VideoItem is one video-detail payload as the upstream returns it. The
// statistics counters stay as the raw strings from the wire; decoding them
// is the builder's job so that one malformed item can be dropped without
// failing the batch.
type VideoItem struct {
	ID           string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	ThumbnailURL string
	ViewCount    string
	LikeCount    string
}

// ChannelInfo is the channel-detail payload keyed by channel id.
type ChannelInfo struct {
	ID              string
	Title           string
	SubscriberCount int64
	PublishedAt     string
}

// Comment is one top-level video comment.
type Comment struct {
	Author    string
	Text      string
	LikeCount int64
}

// CaptionTrack describes one caption track attached to a video.
type CaptionTrack struct {
	ID       string
	Language string
	Kind     string
}

// BuzzProvider issues the staged calls against the upstream platform.
// Credentials are passed per call; ownership of the pool stays with the
// caller.
type BuzzProvider interface {
	// SearchVideos returns the ids of videos matching keyword, newest
	// first by upstream relevance. publishedAfter, when set, bounds the
	// search window.
	SearchVideos(ctx context.Context, apiKey, keyword string, publishedAfter *time.Time) ([]string, error)

	// GetVideoDetails batch-fetches snippet+statistics for the given ids,
	// chunking internally by the upstream batch limit.
	GetVideoDetails(ctx context.Context, apiKey string, videoIDs []string) ([]VideoItem, error)

	// GetChannelDetails batch-fetches channel snippet+statistics, deduping
	// ids, and returns them keyed by channel id.
	GetChannelDetails(ctx context.Context, apiKey string, channelIDs []string) (map[string]ChannelInfo, error)

	// GetVideoComments fetches up to maxResults top-level comments for a
	// video. Videos with comments disabled yield an empty list.
	GetVideoComments(ctx context.Context, apiKey, videoID string, maxResults int) ([]Comment, error)

	// ListCaptions lists the caption tracks attached to a video.
	ListCaptions(ctx context.Context, apiKey, videoID string) ([]CaptionTrack, error)
}
