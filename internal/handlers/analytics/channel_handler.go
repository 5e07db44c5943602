package analytics

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/grvbrk/tubepulse/internal/handlers"
	"github.com/grvbrk/tubepulse/internal/log"
	"github.com/grvbrk/tubepulse/internal/store/analytics"
	"github.com/grvbrk/tubepulse/internal/utils"
)

type ChannelAnalyticsHandler struct {
	ReportStore analytics.ChannelAnalyticsStore
	Logger      zerolog.Logger
}

func NewChannelAnalyticsHandler(reportStore analytics.ChannelAnalyticsStore, logger zerolog.Logger) *ChannelAnalyticsHandler {
	return &ChannelAnalyticsHandler{
		ReportStore: reportStore,
		Logger:      logger,
	}
}

func (ah *ChannelAnalyticsHandler) HandlerGetChannelAnalytics(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), ah.Logger)

	channelID, ok := handlers.ChannelIDParam(r)
	if !ok {
		logger.Info().Msg("Error: channelId parameter is missing")
		utils.WriteError(w, http.StatusBadRequest, handlers.MsgMissingChannelID, "")
		return
	}

	report, err := ah.ReportStore.GetChannelReport(r.Context(), channelID)
	if err != nil {
		handlers.LogPipelineError(logger, err).Str("channel_id", channelID).Msg("Error getting channel analytics")
		utils.WriteError(w, http.StatusInternalServerError, handlers.MsgChannelFailed, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"analytics": report.Analytics})
}
