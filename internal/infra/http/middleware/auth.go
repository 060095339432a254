package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/xavierca1/autoseller/internal/usecase"
)

type ctxKey int

const accountIDKey ctxKey = iota

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Auth exige "Authorization: Bearer <token>" e coloca o account_id no contexto.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "token ausente")
				return
			}

			accountID, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				authError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}

// authError: só erro de domínio vira 401. Falha de banco é 500 e a causa
// não vai para o corpo.
func authError(w http.ResponseWriter, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		unauthorized(w, de.Message)
		return
	}

	code := "INTERNAL_ERROR"
	message := "erro interno"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
		message = te.Message
	}
	writeError(w, http.StatusInternalServerError, code, message)
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, usecase.CodeUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
