package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/autoseller/internal/entity"
)

type AccountRepository struct {
	DB *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, business_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, r.DB.q(query), a.ID, a.Email, a.PasswordHash, a.BusinessName, a.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return entity.ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("erro ao criar conta: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, business_name, created_at FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, business_name, created_at FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg string) (*entity.Account, error) {
	var a entity.Account
	err := r.DB.QueryRowContext(ctx, r.DB.q(query), arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.BusinessName, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar conta: %w", err)
	}
	return &a, nil
}

type SessionRepository struct {
	DB *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	query := `INSERT INTO sessions (token, account_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.DB.ExecContext(ctx, r.DB.q(query), s.Token, s.AccountID, s.ExpiresAt.UTC()); err != nil {
		return fmt.Errorf("erro ao criar sessão: %w", err)
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, token string) (*entity.Session, error) {
	var s entity.Session
	err := r.DB.QueryRowContext(ctx, r.DB.q(`SELECT token, account_id, expires_at FROM sessions WHERE token = $1`), token).
		Scan(&s.Token, &s.AccountID, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar sessão: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.q(`DELETE FROM sessions WHERE token = $1`), token)
	if err != nil {
		return fmt.Errorf("erro ao apagar sessão: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrSessionNotFound
	}
	return nil
}
