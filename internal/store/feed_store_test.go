package store

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/tubepulse/internal/feed"
	"github.com/grvbrk/tubepulse/internal/log"
)

const twoEntryFeed = `<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
 <entry>
  <yt:videoId>one</yt:videoId>
  <title>First</title>
  <published>2025-03-10T00:00:00+00:00</published>
 </entry>
 <entry>
  <yt:videoId>two</yt:videoId>
  <title>Second</title>
  <author><name>Someone</name></author>
  <published>2025-03-07T00:00:00+00:00</published>
 </entry>
</feed>`

type fakeFetcher struct {
	mu       sync.Mutex
	doc      []byte
	err      error
	regions  []string
	channels []string
}

func (f *fakeFetcher) FetchTrending(_ context.Context, region string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, region)
	return f.doc, f.err
}

func (f *fakeFetcher) FetchChannel(_ context.Context, channelID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channelID)
	return f.doc, f.err
}

func TestGetTrendingDefaultsRegion(t *testing.T) {
	f := &fakeFetcher{doc: []byte(twoEntryFeed)}
	s := NewYoutubeFeedStore(f, log.Nop())

	videos, err := s.GetTrending(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, []string{"US"}, f.regions)
	assert.Equal(t, "Unknown", videos[0].Author)
	assert.Equal(t, "Someone", videos[1].Author)
}

func TestGetChannelLatestPreservesFeedOrder(t *testing.T) {
	f := &fakeFetcher{doc: []byte(twoEntryFeed)}
	s := NewYoutubeFeedStore(f, log.Nop())

	videos, err := s.GetChannelLatest(context.Background(), "UC123")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "one", videos[0].ID)
	assert.Equal(t, "two", videos[1].ID)
	assert.Equal(t, []string{"UC123"}, f.channels)
}

func TestFetchErrorsPropagateUnchanged(t *testing.T) {
	upstream := &feed.FetchError{Kind: feed.KindChannel, Status: http.StatusNotFound}
	s := NewYoutubeFeedStore(&fakeFetcher{err: upstream}, log.Nop())

	videos, err := s.GetChannelLatest(context.Background(), "UCgone")
	assert.Nil(t, videos)
	assert.Same(t, upstream, err)
}

func TestMalformedDocument(t *testing.T) {
	s := NewYoutubeFeedStore(&fakeFetcher{doc: []byte("<<<not xml")}, log.Nop())

	videos, err := s.GetTrending(context.Background(), "FR")
	assert.Nil(t, videos)
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrMalformedFeed))
}

func TestConcurrentCallsAreIndependent(t *testing.T) {
	s := NewYoutubeFeedStore(&fakeFetcher{doc: []byte(twoEntryFeed)}, log.Nop())

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			videos, err := s.GetChannelLatest(context.Background(), "UC1")
			if err == nil {
				results[i] = len(videos)
			}
		}(i)
	}
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

func TestNewYoutubeFeedStorePanicsOnNilFetcher(t *testing.T) {
	assert.Panics(t, func() { NewYoutubeFeedStore(nil, log.Nop()) })
}
