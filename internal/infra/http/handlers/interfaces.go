package handlers

import (
	"context"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type InboundProcessor interface {
	HandleInboundMessage(ctx context.Context, input usecase.InboundMessageInput) (*usecase.InboundMessageOutput, error)
}

type AccountFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Account, error)
}

type LeadService interface {
	List(ctx context.Context, accountID string, filter usecase.LeadFilter) ([]*entity.Lead, error)
	Get(ctx context.Context, accountID, id string) (*entity.Lead, error)
	Create(ctx context.Context, accountID string, input usecase.CreateLeadInput) (*entity.Lead, error)
	Update(ctx context.Context, accountID, id string, input usecase.UpdateLeadInput) (*entity.Lead, error)
	Delete(ctx context.Context, accountID, id string) error
	Conversation(ctx context.Context, accountID, id string) ([]*entity.Message, error)
}

type FlowService interface {
	List(ctx context.Context, accountID string) ([]*entity.Flow, error)
	Get(ctx context.Context, accountID, id string) (*entity.Flow, error)
	Save(ctx context.Context, accountID string, input usecase.SaveFlowInput) (*entity.Flow, error)
	Toggle(ctx context.Context, accountID, id string, enabled bool) (*entity.Flow, error)
	Delete(ctx context.Context, accountID, id string) error
}

type SettingsService interface {
	Get(ctx context.Context, accountID string) (*entity.Settings, error)
	Update(ctx context.Context, accountID string, input usecase.UpdateSettingsInput) (*entity.Settings, error)
	ConsumeLastError(ctx context.Context, accountID string) (string, error)
}

type AuthService interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.AuthOutput, error)
	SignIn(ctx context.Context, input usecase.SignInInput) (*usecase.AuthOutput, error)
	SignOut(ctx context.Context, token string) error
}

type StatsService interface {
	Dashboard(ctx context.Context, accountID string, r usecase.StatsRange) (*usecase.DashboardStats, error)
}

type GatewayService interface {
	QRCode(ctx context.Context, accountID string) (*evolution.QRCode, error)
	RefreshStatus(ctx context.Context, accountID string) (entity.ConnectionStatus, error)
}
