package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/infra/metrics"
)

type GatewayConnectionService struct {
	Gateway  WhatsAppGateway
	Settings *SettingsService
	Log      logrus.FieldLogger
}

func NewGatewayConnectionService(gateway WhatsAppGateway, settings *SettingsService, log logrus.FieldLogger) *GatewayConnectionService {
	return &GatewayConnectionService{
		Gateway:  gateway,
		Settings: settings,
		Log:      log,
	}
}

var errGatewayNotConfigured = &DomainError{
	Code:    CodeValidation,
	Message: "configure servidor, API key e instância do WhatsApp antes de conectar",
}

// QRCode pede o código de pareamento e marca a conta como "connecting".
func (s *GatewayConnectionService) QRCode(ctx context.Context, accountID string) (*evolution.QRCode, error) {
	settings, err := s.Settings.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !settings.GatewayConfigured() {
		return nil, errGatewayNotConfigured
	}

	qr, err := s.Gateway.Connect(ctx, connectionFor(settings))
	if err != nil {
		metrics.RecordIntegrationError("whatsapp")
		return nil, &TechnicalError{Code: CodeGateway, Message: "erro ao gerar QR code", Err: err}
	}

	if settings.ConnectionStatus != entity.ConnectionConnected {
		if err := s.Settings.SetConnectionStatus(ctx, settings, entity.ConnectionConnecting); err != nil {
			return nil, err
		}
	}
	return qr, nil
}

// RefreshStatus consulta o estado da instância e persiste connection_status.
func (s *GatewayConnectionService) RefreshStatus(ctx context.Context, accountID string) (entity.ConnectionStatus, error) {
	settings, err := s.Settings.Get(ctx, accountID)
	if err != nil {
		return "", err
	}
	return s.refresh(ctx, settings)
}

// RefreshAll atualiza as contas ativas com gateway configurado. Usado pelo
// worker de status; erros de uma conta não param as outras.
func (s *GatewayConnectionService) RefreshAll(ctx context.Context) (int, error) {
	all, err := s.Settings.Repo.ListActive(ctx)
	if err != nil {
		return 0, dbError("erro ao listar contas ativas", err)
	}

	updated := 0
	for _, settings := range all {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if !settings.GatewayConfigured() {
			continue
		}
		before := settings.ConnectionStatus
		status, err := s.refresh(ctx, settings)
		if err != nil {
			s.Log.WithError(err).WithField("account_id", settings.ID).Warn("⚠️ Falha ao consultar status do WhatsApp")
			continue
		}
		if status != before {
			updated++
		}
	}
	return updated, nil
}

func (s *GatewayConnectionService) refresh(ctx context.Context, settings *entity.Settings) (entity.ConnectionStatus, error) {
	if !settings.GatewayConfigured() {
		return settings.ConnectionStatus, errGatewayNotConfigured
	}

	status, err := s.Gateway.ConnectionState(ctx, connectionFor(settings))
	if err != nil {
		metrics.RecordIntegrationError("whatsapp")
		return "", &TechnicalError{Code: CodeGateway, Message: "erro ao consultar estado da conexão", Err: err}
	}

	if status != settings.ConnectionStatus {
		s.Log.WithFields(logrus.Fields{
			"account_id": settings.ID,
			"from":       settings.ConnectionStatus,
			"to":         status,
		}).Info("📶 Status do WhatsApp mudou")
		if err := s.Settings.SetConnectionStatus(ctx, settings, status); err != nil {
			return "", err
		}
	}
	return status, nil
}
