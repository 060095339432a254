package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	BusinessName string    `json:"business_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewAccount(email, passwordHash, businessName string) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		BusinessName: strings.TrimSpace(businessName),
		CreatedAt:    time.Now().UTC(),
	}
}

type Session struct {
	Token     string    `json:"token"`
	AccountID string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSession(accountID string, ttl time.Duration) *Session {
	return &Session{
		Token:     uuid.New().String(),
		AccountID: accountID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type AccountRepositoryInterface interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}

type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *Session) error
	Find(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
