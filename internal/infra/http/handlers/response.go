package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUsecaseError traduz DomainError/TechnicalError para HTTP. Erro técnico
// vai pro log com a causa; o cliente só vê a mensagem.
func writeUsecaseError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeConflict:
			status = http.StatusConflict
		case usecase.CodeUnauthorized:
			status = http.StatusUnauthorized
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.WithError(err).Error("❌ Erro técnico")
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeGateway {
			status = http.StatusBadGateway
		}
		writeErrorResponse(w, status, te.Code, te.Message)
		return
	}

	log.WithError(err).Error("❌ Erro inesperado")
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
}

// decodeJSON escreve 400 e devolve false se o corpo não for JSON válido.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}
