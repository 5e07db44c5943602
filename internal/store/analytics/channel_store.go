package analytics

import (
	"context"

	engine "github.com/grvbrk/tubepulse/internal/analytics"
	"github.com/grvbrk/tubepulse/internal/models"
	"github.com/grvbrk/tubepulse/internal/store"
)

type ChannelReport struct {
	Videos    []models.Video          `json:"videos"`
	Analytics models.ChannelAnalytics `json:"analytics"`
}

type ChannelAnalyticsStore interface {
	GetChannelReport(ctx context.Context, channelID string) (*ChannelReport, error)
}

// FeedChannelAnalyticsStore derives channel analytics from the channel's live
// feed. Videos are returned in feed order.
type FeedChannelAnalyticsStore struct {
	feeds store.FeedStore
}

func NewFeedChannelAnalyticsStore(feeds store.FeedStore) *FeedChannelAnalyticsStore {
	return &FeedChannelAnalyticsStore{feeds: feeds}
}

func (s *FeedChannelAnalyticsStore) GetChannelReport(ctx context.Context, channelID string) (*ChannelReport, error) {
	videos, err := s.feeds.GetChannelLatest(ctx, channelID)
	if err != nil {
		return nil, err
	}

	return &ChannelReport{
		Videos:    videos,
		Analytics: engine.Summarize(videos),
	}, nil
}
