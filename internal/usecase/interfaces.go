package usecase

import (
	"context"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/infra/integration/gemini"
	"github.com/xavierca1/autoseller/internal/infra/queue"
)

type ReplyGenerator interface {
	Generate(ctx context.Context, input gemini.GenerateInput) (*gemini.GenerateOutput, error)
}

type WhatsAppGateway interface {
	SendText(ctx context.Context, conn evolution.Connection, number, text string) error
	SendMedia(ctx context.Context, conn evolution.Connection, number string, mediaType entity.MessageType, mediaURL string) error
	Connect(ctx context.Context, conn evolution.Connection) (*evolution.QRCode, error)
	ConnectionState(ctx context.Context, conn evolution.Connection) (entity.ConnectionStatus, error)
}

// FlowDispatcher é fire-and-forget: o erro só indica falha ao enfileirar.
type FlowDispatcher interface {
	DispatchFlow(ctx context.Context, payload queue.FlowRunPayload) error
}

type EmailService interface {
	SendWelcome(to, businessName, dashboardURL string) error
	SendQuotaAlert(to, businessName, message string, used, limit int) error
}

func connectionFor(s *entity.Settings) evolution.Connection {
	return evolution.Connection{
		ServerURL: s.WhatsAppServerURL,
		APIKey:    s.WhatsAppAPIKey,
		Instance:  s.WhatsAppInstanceID,
	}
}
