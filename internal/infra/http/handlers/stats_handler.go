package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type StatsHandler struct {
	Stats StatsService
	Log   logrus.FieldLogger
}

func NewStatsHandler(stats StatsService, log logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{Stats: stats, Log: log}
}

// Handle (GET /stats?range=today|7d|30d)
func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rng := usecase.StatsRange(r.URL.Query().Get("range"))

	stats, err := h.Stats.Dashboard(r.Context(), middleware.AccountID(r.Context()), rng)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
