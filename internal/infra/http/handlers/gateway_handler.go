package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
)

type GatewayHandler struct {
	Gateway GatewayService
	Log     logrus.FieldLogger
}

func NewGatewayHandler(gateway GatewayService, log logrus.FieldLogger) *GatewayHandler {
	return &GatewayHandler{Gateway: gateway, Log: log}
}

// QRCode (GET /whatsapp/qrcode)
func (h *GatewayHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Gateway.QRCode(r.Context(), middleware.AccountID(r.Context()))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, qr)
}

// Status (GET /whatsapp/status)
func (h *GatewayHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Gateway.RefreshStatus(r.Context(), middleware.AccountID(r.Context()))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"connection_status": string(status)})
}
