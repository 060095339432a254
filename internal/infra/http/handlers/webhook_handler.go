package handlers

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/usecase"
)

const (
	SignatureHeader = "X-Signature"
	maxWebhookBody  = 1 << 20
)

type WebhookHandler struct {
	Engine   InboundProcessor
	Accounts AccountFinder
	Limiter  *RateLimiter
	Secret   string
	Log      logrus.FieldLogger
}

func NewWebhookHandler(engine InboundProcessor, accounts AccountFinder, limiter *RateLimiter, secret string, log logrus.FieldLogger) *WebhookHandler {
	return &WebhookHandler{
		Engine:   engine,
		Accounts: accounts,
		Limiter:  limiter,
		Secret:   secret,
		Log:      log,
	}
}

// Handle (POST /webhook/{accountId}) recebe o evento do gateway de WhatsApp.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil && !h.Limiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "muitas requisições")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo ilegível")
		return
	}

	if h.Secret != "" && !VerifySignature(body, h.Secret, r.Header.Get(SignatureHeader)) {
		h.Log.WithField("ip", getClientIP(r)).Warn("🚫 Webhook com assinatura inválida")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_signature"})
		return
	}

	var event evolution.WebhookEvent
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	accountID := chi.URLParam(r, "accountId")
	if _, err := h.Accounts.FindByID(r.Context(), accountID); err != nil {
		if errors.Is(err, entity.ErrAccountNotFound) {
			writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "conta não encontrada")
			return
		}
		writeUsecaseError(w, h.Log, err)
		return
	}

	phone, text, ok := event.InboundText()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	out, err := h.Engine.HandleInboundMessage(r.Context(), usecase.InboundMessageInput{
		AccountID: accountID,
		Phone:     phone,
		Content:   text,
	})
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	if out == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "processed",
		"lead_id":     out.Lead.ID,
		"sales_stage": string(out.Lead.SalesStage),
	})
}

// VerifySignature confere hex(sha256(body + secret)).
func VerifySignature(body []byte, secret, signature string) bool {
	if signature == "" {
		return false
	}
	sum := sha256.Sum256(append(append([]byte{}, body...), secret...))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
