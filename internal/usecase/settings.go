package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/metrics"
)

const FlowQuotaMessage = "Limite de cota atingido durante fluxo automático."

type UpdateSettingsInput struct {
	SalesPrompt        *string           `json:"sales_prompt" validate:"omitempty,min=10"`
	ObjectionScripts   map[string]string `json:"objection_scripts" validate:"omitempty,dive,keys,required,endkeys,required"`
	PaymentLink        *string           `json:"payment_link" validate:"omitempty,url"`
	BusinessName       *string           `json:"business_name" validate:"omitempty,max=120"`
	WhatsAppAPIKey     *string           `json:"whatsapp_api_key" validate:"omitempty,max=255"`
	WhatsAppInstanceID *string           `json:"whatsapp_instance_id" validate:"omitempty,max=120"`
	WhatsAppServerURL  *string           `json:"whatsapp_server_url" validate:"omitempty,url"`
	IsActive           *bool             `json:"is_active"`
}

type SettingsService struct {
	Repo     entity.SettingsRepositoryInterface
	Accounts entity.AccountRepositoryInterface
	Email    EmailService
	Log      logrus.FieldLogger
}

// NewSettingsService aceita accounts e email nulos (alerta de cota desligado).
func NewSettingsService(
	repo entity.SettingsRepositoryInterface,
	accounts entity.AccountRepositoryInterface,
	email EmailService,
	log logrus.FieldLogger,
) *SettingsService {
	return &SettingsService{
		Repo:     repo,
		Accounts: accounts,
		Email:    email,
		Log:      log,
	}
}

// Get devolve as configurações da conta, criando os padrões na primeira leitura.
func (s *SettingsService) Get(ctx context.Context, accountID string) (*entity.Settings, error) {
	settings, err := s.Repo.Get(ctx, accountID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, entity.ErrSettingsNotFound) {
		return nil, dbError("erro ao carregar configurações", err)
	}

	businessName := ""
	if s.Accounts != nil {
		if acc, accErr := s.Accounts.FindByID(ctx, accountID); accErr == nil {
			businessName = acc.BusinessName
		}
	}

	settings = entity.DefaultSettings(accountID, businessName)
	if err := s.Repo.Upsert(ctx, settings); err != nil {
		return nil, dbError("erro ao criar configurações padrão", err)
	}

	s.Log.WithField("account_id", accountID).Info("🆕 Configurações padrão criadas")
	return settings, nil
}

func (s *SettingsService) Save(ctx context.Context, settings *entity.Settings) error {
	settings.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Upsert(ctx, settings); err != nil {
		return dbError("erro ao salvar configurações", err)
	}
	return nil
}

// Update altera apenas os campos editáveis pelo operador. Contadores de uso
// e status da assinatura ficam de fora.
func (s *SettingsService) Update(ctx context.Context, accountID string, input UpdateSettingsInput) (*entity.Settings, error) {
	if err := check(input); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if input.SalesPrompt != nil {
		settings.SalesPrompt = *input.SalesPrompt
	}
	if input.ObjectionScripts != nil {
		settings.ObjectionScripts = input.ObjectionScripts
	}
	if input.PaymentLink != nil {
		settings.PaymentLink = *input.PaymentLink
	}
	if input.BusinessName != nil {
		settings.BusinessName = *input.BusinessName
	}
	if input.WhatsAppAPIKey != nil {
		settings.WhatsAppAPIKey = *input.WhatsAppAPIKey
	}
	if input.WhatsAppInstanceID != nil {
		settings.WhatsAppInstanceID = *input.WhatsAppInstanceID
	}
	if input.WhatsAppServerURL != nil {
		settings.WhatsAppServerURL = *input.WhatsAppServerURL
	}
	if input.IsActive != nil {
		settings.IsActive = *input.IsActive
	}

	if err := s.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ConsumeLastError lê e limpa a notificação pendente (banner do painel).
func (s *SettingsService) ConsumeLastError(ctx context.Context, accountID string) (string, error) {
	settings, err := s.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	if settings.LastError == "" {
		return "", nil
	}

	if err := s.Repo.ClearLastError(ctx, accountID, settings.LastError); err != nil {
		return "", dbError("erro ao limpar notificação", err)
	}
	return settings.LastError, nil
}

// RecordError grava last_error. Falha ao salvar só vai pro log.
func (s *SettingsService) RecordError(ctx context.Context, settings *entity.Settings, message string) {
	settings.LastError = message
	if err := s.Repo.SetLastError(ctx, settings.ID, message); err != nil {
		s.Log.WithError(err).WithField("account_id", settings.ID).Error("❌ Falha ao registrar last_error")
	}
}

// IncrementUsage soma 1 direto no banco; a cópia em memória acompanha.
func (s *SettingsService) IncrementUsage(ctx context.Context, settings *entity.Settings) error {
	if err := s.Repo.IncrementUsage(ctx, settings.ID); err != nil {
		return dbError("erro ao atualizar contador de uso", err)
	}
	settings.UsedMessages++
	return nil
}

// SetConnectionStatus grava só o connection_status.
func (s *SettingsService) SetConnectionStatus(ctx context.Context, settings *entity.Settings, status entity.ConnectionStatus) error {
	if err := s.Repo.SetConnectionStatus(ctx, settings.ID, status); err != nil {
		return dbError("erro ao salvar status da conexão", err)
	}
	settings.ConnectionStatus = status
	return nil
}

// HaltOnQuota devolve true quando a cota acabou. Nesse caso grava a mensagem
// em last_error e avisa o operador por email na primeira vez.
func (s *SettingsService) HaltOnQuota(ctx context.Context, settings *entity.Settings, origin, message string) bool {
	if !settings.QuotaExhausted() {
		return false
	}

	metrics.RecordQuotaBlock(origin)
	log := s.Log.WithFields(logrus.Fields{
		"account_id": settings.ID,
		"origin":     origin,
		"used":       settings.UsedMessages,
		"limit":      settings.MessageLimit,
	})
	log.Warn("🛑 Cota de mensagens esgotada")

	alreadyNotified := settings.LastError == message
	s.RecordError(ctx, settings, message)
	if !alreadyNotified {
		s.notifyQuota(ctx, settings, message)
	}
	return true
}

func (s *SettingsService) notifyQuota(ctx context.Context, settings *entity.Settings, message string) {
	if s.Email == nil || s.Accounts == nil {
		return
	}

	acc, err := s.Accounts.FindByID(ctx, settings.ID)
	if err != nil {
		s.Log.WithError(err).Warn("⚠️ Conta não encontrada para alerta de cota")
		return
	}

	if err := s.Email.SendQuotaAlert(acc.Email, settings.BusinessName, message, settings.UsedMessages, settings.MessageLimit); err != nil {
		metrics.RecordIntegrationError("mail")
		s.Log.WithError(err).Error("❌ Erro ao enviar alerta de cota")
		return
	}
	s.Log.WithField("to", acc.Email).Info("📧 Alerta de cota enviado")
}
