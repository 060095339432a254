package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/metrics"
)

type MessageSender struct {
	Gateway  WhatsAppGateway
	Settings *SettingsService
	Log      logrus.FieldLogger
}

func NewMessageSender(gateway WhatsAppGateway, settings *SettingsService, log logrus.FieldLogger) *MessageSender {
	return &MessageSender{
		Gateway:  gateway,
		Settings: settings,
		Log:      log,
	}
}

// Send entrega pelo gateway e devolve true só quando a mensagem saiu de fato.
// Falhas nunca sobem: ficam em last_error.
func (s *MessageSender) Send(ctx context.Context, settings *entity.Settings, phone string, msgType entity.MessageType, content string) bool {
	log := s.Log.WithFields(logrus.Fields{
		"account_id": settings.ID,
		"phone":      phone,
		"type":       msgType,
	})

	if !settings.IsActive || settings.WhatsAppAPIKey == "" {
		log.Warn("💬 [MENSAGEM SIMULADA] WhatsApp offline ou sem API Key")
		return false
	}

	conn := connectionFor(settings)

	var err error
	if msgType.IsMedia() {
		err = s.Gateway.SendMedia(ctx, conn, phone, msgType, content)
	} else {
		err = s.Gateway.SendText(ctx, conn, phone, content)
	}

	if err != nil {
		metrics.RecordIntegrationError("whatsapp")
		log.WithError(err).Error("❌ Erro ao enviar mensagem real")
		s.Settings.RecordError(ctx, settings, "Falha no WhatsApp: "+err.Error())
		return false
	}

	log.Info("📤 [WHATSAPP REAL] Mensagem enviada")
	return true
}
