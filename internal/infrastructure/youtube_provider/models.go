package youtubeprovider

import (
	"strconv"

	"ytbuzz/internal/provider"
)

// Wire shapes for the YouTube Data API v3 responses. Only the fields the
// service consumes are mapped.

type apiErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videoListResponse struct {
	Items []videoResource `json:"items"`
}

type videoResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string     `json:"title"`
		ChannelID    string     `json:"channelId"`
		ChannelTitle string     `json:"channelTitle"`
		PublishedAt  string     `json:"publishedAt"`
		Thumbnails   thumbnails `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
		LikeCount string `json:"likeCount"`
	} `json:"statistics"`
}

type thumbnails struct {
	High    thumbnail `json:"high"`
	Medium  thumbnail `json:"medium"`
	Default thumbnail `json:"default"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// bestURL prefers the highest resolution available.
func (t thumbnails) bestURL() string {
	switch {
	case t.High.URL != "":
		return t.High.URL
	case t.Medium.URL != "":
		return t.Medium.URL
	default:
		return t.Default.URL
	}
}

func (v videoResource) toProviderItem() provider.VideoItem {
	return provider.VideoItem{
		ID:           v.ID,
		Title:        v.Snippet.Title,
		ChannelID:    v.Snippet.ChannelID,
		ChannelTitle: v.Snippet.ChannelTitle,
		PublishedAt:  v.Snippet.PublishedAt,
		ThumbnailURL: v.Snippet.Thumbnails.bestURL(),
		ViewCount:    v.Statistics.ViewCount,
		LikeCount:    v.Statistics.LikeCount,
	}
}

type channelListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (r channelListResponse) toProviderMap() map[string]provider.ChannelInfo {
	channels := make(map[string]provider.ChannelInfo, len(r.Items))
	for _, item := range r.Items {
		if item.ID == "" {
			continue
		}
		// Upstream hides the counter for some channels; treat as 0.
		subscribers, _ := strconv.ParseInt(item.Statistics.SubscriberCount, 10, 64)
		channels[item.ID] = provider.ChannelInfo{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			SubscriberCount: subscribers,
			PublishedAt:     item.Snippet.PublishedAt,
		}
	}
	return channels
}

type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					AuthorDisplayName string `json:"authorDisplayName"`
					TextDisplay       string `json:"textDisplay"`
					LikeCount         int64  `json:"likeCount"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

func (r commentThreadsResponse) toProviderComments() []provider.Comment {
	comments := make([]provider.Comment, 0, len(r.Items))
	for _, item := range r.Items {
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, provider.Comment{
			Author:    s.AuthorDisplayName,
			Text:      s.TextDisplay,
			LikeCount: s.LikeCount,
		})
	}
	return comments
}

type captionListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Language  string `json:"language"`
			TrackKind string `json:"trackKind"`
		} `json:"snippet"`
	} `json:"items"`
}

func (r captionListResponse) toProviderTracks() []provider.CaptionTrack {
	tracks := make([]provider.CaptionTrack, 0, len(r.Items))
	for _, item := range r.Items {
		tracks = append(tracks, provider.CaptionTrack{
			ID:       item.ID,
			Language: item.Snippet.Language,
			Kind:     item.Snippet.TrackKind,
		})
	}
	return tracks
}
