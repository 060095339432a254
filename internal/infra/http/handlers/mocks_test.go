package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type MockInboundProcessor struct {
	mock.Mock
}

func (m *MockInboundProcessor) HandleInboundMessage(ctx context.Context, input usecase.InboundMessageInput) (*usecase.InboundMessageOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.InboundMessageOutput), args.Error(1)
}

type MockAccountFinder struct {
	mock.Mock
}

func (m *MockAccountFinder) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) List(ctx context.Context, accountID string, filter usecase.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadService) Get(ctx context.Context, accountID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) Create(ctx context.Context, accountID string, input usecase.CreateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) Update(ctx context.Context, accountID, id string, input usecase.UpdateLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, accountID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadService) Delete(ctx context.Context, accountID, id string) error {
	return m.Called(ctx, accountID, id).Error(0)
}

func (m *MockLeadService) Conversation(ctx context.Context, accountID, id string) ([]*entity.Message, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, accountID string) (*entity.Settings, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, accountID string, input usecase.UpdateSettingsInput) (*entity.Settings, error) {
	args := m.Called(ctx, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Settings), args.Error(1)
}

func (m *MockSettingsService) ConsumeLastError(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context, accountID string, r usecase.StatsRange) (*usecase.DashboardStats, error) {
	args := m.Called(ctx, accountID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DashboardStats), args.Error(1)
}

type MockGatewayService struct {
	mock.Mock
}

func (m *MockGatewayService) QRCode(ctx context.Context, accountID string) (*evolution.QRCode, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evolution.QRCode), args.Error(1)
}

func (m *MockGatewayService) RefreshStatus(ctx context.Context, accountID string) (entity.ConnectionStatus, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(entity.ConnectionStatus), args.Error(1)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
