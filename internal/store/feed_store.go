package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grvbrk/tubepulse/internal/feed"
	"github.com/grvbrk/tubepulse/internal/log"
	"github.com/grvbrk/tubepulse/internal/metrics"
	"github.com/grvbrk/tubepulse/internal/models"
)

// FeedFetcher returns raw feed documents. *feed.Client satisfies it.
type FeedFetcher interface {
	FetchTrending(ctx context.Context, region string) ([]byte, error)
	FetchChannel(ctx context.Context, channelID string) ([]byte, error)
}

type FeedStore interface {
	GetTrending(ctx context.Context, regionCode string) ([]models.Video, error)
	GetChannelLatest(ctx context.Context, channelID string) ([]models.Video, error)
}

// YoutubeFeedStore reads live upstream feeds on every call. It holds no
// records between calls.
type YoutubeFeedStore struct {
	fetcher FeedFetcher
	logger  zerolog.Logger
}

func NewYoutubeFeedStore(fetcher FeedFetcher, logger zerolog.Logger) *YoutubeFeedStore {
	if fetcher == nil {
		panic("fetcher cannot be nil for YoutubeFeedStore")
	}
	return &YoutubeFeedStore{fetcher: fetcher, logger: logger}
}

func (s *YoutubeFeedStore) GetTrending(ctx context.Context, regionCode string) ([]models.Video, error) {
	if regionCode == "" {
		regionCode = feed.DefaultRegion
	}

	doc, err := s.fetcher.FetchTrending(ctx, regionCode)
	if err != nil {
		return nil, err
	}
	return s.normalize(ctx, feed.KindTrending, doc)
}

func (s *YoutubeFeedStore) GetChannelLatest(ctx context.Context, channelID string) ([]models.Video, error) {
	doc, err := s.fetcher.FetchChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.normalize(ctx, feed.KindChannel, doc)
}

func (s *YoutubeFeedStore) normalize(ctx context.Context, kind feed.Kind, doc []byte) ([]models.Video, error) {
	videos, err := feed.Normalize(doc)
	metrics.RecordFeedParse(string(kind), len(videos), err)

	logger := log.WithContext(ctx, s.logger)
	if err != nil {
		logger.Warn().Err(err).Str("kind", string(kind)).Int("bytes", len(doc)).Msg("feed document rejected")
		return nil, err
	}
	logger.Debug().Str("kind", string(kind)).Int("records", len(videos)).Msg("feed normalized")
	return videos, nil
}
