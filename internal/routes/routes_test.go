package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grvbrk/tubepulse/internal/app"
	"github.com/grvbrk/tubepulse/internal/config"
)

func channelFeed(n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">`)
	start := time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `
 <entry>
  <yt:videoId>vid%02d</yt:videoId>
  <title>Episode %d</title>
  <link rel="alternate" href="https://www.youtube.com/watch?v=vid%02d"/>
  <author><name>Route Channel</name></author>
  <published>%s</published>
  <media:group>
   <media:thumbnail url="https://i.ytimg.com/vi/vid%02d/hqdefault.jpg"/>
   <media:description>Length 10:00</media:description>
  </media:group>
 </entry>`, i, i, i, start.Add(-time.Duration(i)*72*time.Hour).Format(time.RFC3339), i)
	}
	b.WriteString("\n</feed>")
	return b.String()
}

func newTestRouter(t *testing.T, upstream http.HandlerFunc) http.Handler {
	t.Helper()
	s := httptest.NewServer(upstream)
	t.Cleanup(s.Close)

	cfg := config.Default()
	cfg.Feed.BaseURL = s.URL
	cfg.Feed.Timeout = config.Duration{Duration: 2 * time.Second}
	cfg.AllowedOrigins = []string{"https://app.example.com"}

	application, err := app.NewApplication(cfg)
	require.NoError(t, err)
	return SetupRoutes(application)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestChannelRouteEndToEnd(t *testing.T) {
	var gotQuery string
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(channelFeed(20)))
	})

	rec := get(h, "/api/channel?channelId=UCroute")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "channel_id=UCroute", gotQuery)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Videos []struct {
			ID string `json:"id"`
		} `json:"videos"`
		Analytics map[string]any `json:"analytics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Videos, 15)
	assert.Equal(t, "vid00", body.Videos[0].ID)
	assert.Equal(t, "vid14", body.Videos[14].ID)
	assert.Equal(t, "10.0 min", body.Analytics["avgLength"])
	assert.Equal(t, "3.0 days per upload", body.Analytics["cadence"])
	assert.Equal(t, "Episode 0", body.Analytics["latestUpload"])
}

func TestTrendingRouteDefaultsRegion(t *testing.T) {
	var gotQuery string
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(channelFeed(1)))
	})

	rec := get(h, "/api/trending")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chart=mostPopular&hl=en&region=US", gotQuery)
}

func TestChannelAnalyticsRoute(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(channelFeed(1)))
	})

	rec := get(h, "/api/channel/analytics?channelId=UCone")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analytics": {
		"avgLength": "10.0 min",
		"cadence": "Needs data",
		"latestUpload": "Episode 0",
		"sampleSize": 1
	}}`, rec.Body.String())
}

func TestRouteErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name     string
		upstream http.HandlerFunc
		target   string
		status   int
		want     string
		prefix   string
	}{
		{
			name:     "missing channel id",
			upstream: func(w http.ResponseWriter, _ *http.Request) { t.Error("upstream must not be called") },
			target:   "/api/channel",
			status:   http.StatusBadRequest,
			want:     `{"error": "Missing channelId parameter"}`,
		},
		{
			name:     "upstream 404",
			upstream: func(w http.ResponseWriter, _ *http.Request) { http.NotFound(w, nil) },
			target:   "/api/channel?channelId=UCgone",
			status:   http.StatusInternalServerError,
			want:     `{"error": "Failed to load channel feed", "details": "failed to fetch channel feed (404)"}`,
		},
		{
			name:     "upstream 500 trending",
			upstream: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			target:   "/api/trending?region=GB",
			status:   http.StatusInternalServerError,
			want:     `{"error": "Failed to load trending videos", "details": "failed to fetch trending feed (500)"}`,
		},
		{
			name:     "malformed document",
			upstream: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("<feed><entry>")) },
			target:   "/api/trending",
			status:   http.StatusInternalServerError,
			prefix:   "malformed feed document: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, tt.upstream)
			rec := get(h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.prefix == "" {
				assert.JSONEq(t, tt.want, rec.Body.String())
				return
			}

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Failed to load trending videos", body["error"])
			assert.True(t, strings.HasPrefix(body["details"], tt.prefix), body["details"])
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(channelFeed(2)))
	})

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, get(h, "/api/channel?channelId=UCm").Code)

	rec = get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tubepulse_feed_fetch_total")
	assert.Contains(t, rec.Body.String(), "tubepulse_http_requests_total")
}

func TestCorsOnAPI(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(channelFeed(1)))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trending", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/api/channel", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Feed.BaseURL = ""
	require.Error(t, Run(context.Background(), cfg))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
