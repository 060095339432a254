package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type SimulatorHandler struct {
	Engine InboundProcessor
	Log    logrus.FieldLogger
}

func NewSimulatorHandler(engine InboundProcessor, log logrus.FieldLogger) *SimulatorHandler {
	return &SimulatorHandler{Engine: engine, Log: log}
}

// Handle (POST /simulator/messages) roda o motor como se a mensagem tivesse
// chegado pelo WhatsApp.
func (h *SimulatorHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.InboundMessageInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.AccountID = middleware.AccountID(r.Context())

	out, err := h.Engine.HandleInboundMessage(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	if out == nil {
		// cota esgotada: o aviso fica em last_error
		writeErrorResponse(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "limite de mensagens atingido")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
