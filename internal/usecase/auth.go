package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/autoseller/internal/entity"
)

type SignUpInput struct {
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	BusinessName string `json:"business_name" validate:"required,max=120"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthOutput struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *entity.Account `json:"account"`
}

type AuthService struct {
	Accounts     entity.AccountRepositoryInterface
	Sessions     entity.SessionRepositoryInterface
	Settings     *SettingsService
	Email        EmailService
	SessionTTL   time.Duration
	DashboardURL string
	Log          logrus.FieldLogger
}

func NewAuthService(
	accounts entity.AccountRepositoryInterface,
	sessions entity.SessionRepositoryInterface,
	settings *SettingsService,
	email EmailService,
	sessionTTL time.Duration,
	dashboardURL string,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		Accounts:     accounts,
		Sessions:     sessions,
		Settings:     settings,
		Email:        email,
		SessionTTL:   sessionTTL,
		DashboardURL: dashboardURL,
		Log:          log,
	}
}

func unauthorized(message string) error {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

// SignUp cria a conta, as configurações padrão e já abre uma sessão.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthOutput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.BusinessName = strings.TrimSpace(input.BusinessName)
	if err := check(input); err != nil {
		return nil, err
	}

	_, err := s.Accounts.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, &DomainError{Code: CodeConflict, Message: entity.ErrEmailAlreadyExists.Error()}
	}
	if !errors.Is(err, entity.ErrAccountNotFound) {
		return nil, dbError("erro ao buscar conta", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao gerar hash da senha", Err: err}
	}

	account := entity.NewAccount(input.Email, string(hash), input.BusinessName)
	if err := s.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeConflict, Message: err.Error()}
		}
		return nil, dbError("erro ao criar conta", err)
	}

	if _, err := s.Settings.Get(ctx, account.ID); err != nil {
		return nil, err
	}

	s.Log.WithField("account_id", account.ID).Info("🎉 Nova conta criada")

	if s.Email != nil {
		if err := s.Email.SendWelcome(account.Email, account.BusinessName, s.DashboardURL); err != nil {
			s.Log.WithError(err).Warn("⚠️ Conta criada, mas falha ao enviar boas-vindas")
		}
	}

	return s.openSession(ctx, account)
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthOutput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := check(input); err != nil {
		return nil, err
	}

	account, err := s.Accounts.FindByEmail(ctx, input.Email)
	if errors.Is(err, entity.ErrAccountNotFound) {
		return nil, unauthorized(entity.ErrInvalidCredentials.Error())
	}
	if err != nil {
		return nil, dbError("erro ao buscar conta", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, unauthorized(entity.ErrInvalidCredentials.Error())
	}

	return s.openSession(ctx, account)
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.Sessions.Delete(ctx, token); err != nil && !errors.Is(err, entity.ErrSessionNotFound) {
		return dbError("erro ao encerrar sessão", err)
	}
	return nil
}

// Authenticate devolve o account_id dono do token. Sessão vencida é apagada.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", unauthorized("token ausente")
	}

	session, err := s.Sessions.Find(ctx, token)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return "", unauthorized("sessão inválida")
	}
	if err != nil {
		return "", dbError("erro ao validar sessão", err)
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.Sessions.Delete(ctx, token)
		return "", unauthorized("sessão expirada")
	}
	return session.AccountID, nil
}

func (s *AuthService) openSession(ctx context.Context, account *entity.Account) (*AuthOutput, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	session := entity.NewSession(account.ID, ttl)
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, dbError("erro ao criar sessão", err)
	}

	return &AuthOutput{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Account:   account,
	}, nil
}
