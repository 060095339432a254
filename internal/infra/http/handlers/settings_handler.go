package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type SettingsHandler struct {
	Settings  SettingsService
	PublicURL string
	Log       logrus.FieldLogger
}

func NewSettingsHandler(settings SettingsService, publicURL string, log logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{
		Settings:  settings,
		PublicURL: strings.TrimRight(publicURL, "/"),
		Log:       log,
	}
}

// SettingsResponse inclui a URL que o operador cadastra no gateway.
type SettingsResponse struct {
	*entity.Settings
	WebhookURL string `json:"webhook_url"`
}

func (h *SettingsHandler) response(s *entity.Settings) SettingsResponse {
	return SettingsResponse{
		Settings:   s,
		WebhookURL: h.PublicURL + "/webhook/" + s.ID,
	}
}

// Get (GET /settings)
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context(), middleware.AccountID(r.Context()))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(s))
}

// Update (PATCH /settings)
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateSettingsInput
	if !decodeJSON(w, r, &input) {
		return
	}

	s, err := h.Settings.Update(r.Context(), middleware.AccountID(r.Context()), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.response(s))
}

// Notification (POST /settings/notification) devolve e limpa o last_error.
func (h *SettingsHandler) Notification(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Settings.ConsumeLastError(r.Context(), middleware.AccountID(r.Context()))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	if msg == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}
