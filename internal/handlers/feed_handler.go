package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grvbrk/tubepulse/internal/feed"
	"github.com/grvbrk/tubepulse/internal/log"
	"github.com/grvbrk/tubepulse/internal/store"
	"github.com/grvbrk/tubepulse/internal/store/analytics"
	"github.com/grvbrk/tubepulse/internal/utils"
)

const (
	MsgMissingChannelID = "Missing channelId parameter"
	MsgTrendingFailed   = "Failed to load trending videos"
	MsgChannelFailed    = "Failed to load channel feed"
)

type FeedHandler struct {
	FeedStore   store.FeedStore
	ReportStore analytics.ChannelAnalyticsStore
	Logger      zerolog.Logger
}

func NewFeedHandler(feedStore store.FeedStore, reportStore analytics.ChannelAnalyticsStore, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		FeedStore:   feedStore,
		ReportStore: reportStore,
		Logger:      logger,
	}
}

func (fh *FeedHandler) HandlerGetTrending(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), fh.Logger)

	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		region = feed.DefaultRegion
	}

	videos, err := fh.FeedStore.GetTrending(r.Context(), region)
	if err != nil {
		LogPipelineError(logger, err).Str("region", region).Msg("Error getting trending videos")
		utils.WriteError(w, http.StatusInternalServerError, MsgTrendingFailed, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"videos": videos})
}

func (fh *FeedHandler) HandlerGetChannelLatest(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), fh.Logger)

	channelID, ok := ChannelIDParam(r)
	if !ok {
		logger.Info().Msg("Error: channelId parameter is missing")
		utils.WriteError(w, http.StatusBadRequest, MsgMissingChannelID, "")
		return
	}

	report, err := fh.ReportStore.GetChannelReport(r.Context(), channelID)
	if err != nil {
		LogPipelineError(logger, err).Str("channel_id", channelID).Msg("Error getting channel feed")
		utils.WriteError(w, http.StatusInternalServerError, MsgChannelFailed, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"videos":    report.Videos,
		"analytics": report.Analytics,
	})
}

// ChannelIDParam returns the trimmed channelId query parameter.
func ChannelIDParam(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("channelId"))
	return id, id != ""
}

// LogPipelineError picks the log level by failure class: upstream status and
// malformed documents are warnings, timeouts and transport failures errors.
func LogPipelineError(logger zerolog.Logger, err error) *zerolog.Event {
	var fe *feed.FetchError
	switch {
	case errors.As(err, &fe) && fe.Status > 0:
		return logger.Warn().Err(err).Int("upstream_status", fe.Status)
	case errors.Is(err, feed.ErrMalformedFeed):
		return logger.Warn().Err(err)
	case errors.Is(err, feed.ErrTimeout):
		return logger.Error().Err(err).Bool("timeout", true)
	default:
		return logger.Error().Err(err)
	}
}
