package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/autoseller/internal/entity"
	"github.com/xavierca1/autoseller/internal/infra/integration/evolution"
	"github.com/xavierca1/autoseller/internal/infra/integration/gemini"
	"github.com/xavierca1/autoseller/internal/infra/queue"
)

// MockGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, input gemini.GenerateInput) (*gemini.GenerateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.GenerateOutput), args.Error(1)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SendText(ctx context.Context, conn evolution.Connection, number, text string) error {
	args := m.Called(ctx, conn, number, text)
	return args.Error(0)
}

func (m *MockGateway) SendMedia(ctx context.Context, conn evolution.Connection, number string, mediaType entity.MessageType, mediaURL string) error {
	args := m.Called(ctx, conn, number, mediaType, mediaURL)
	return args.Error(0)
}

func (m *MockGateway) Connect(ctx context.Context, conn evolution.Connection) (*evolution.QRCode, error) {
	args := m.Called(ctx, conn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*evolution.QRCode), args.Error(1)
}

func (m *MockGateway) ConnectionState(ctx context.Context, conn evolution.Connection) (entity.ConnectionStatus, error) {
	args := m.Called(ctx, conn)
	return args.Get(0).(entity.ConnectionStatus), args.Error(1)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) DispatchFlow(ctx context.Context, payload queue.FlowRunPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(to, businessName, dashboardURL string) error {
	args := m.Called(to, businessName, dashboardURL)
	return args.Error(0)
}

func (m *MockEmailService) SendQuotaAlert(to, businessName, message string, used, limit int) error {
	args := m.Called(to, businessName, message, used, limit)
	return args.Error(0)
}

// Repositórios em memória: os testes de propriedade precisam de estado real.

type memLeadRepo struct {
	mu    sync.Mutex
	leads map[string]*entity.Lead
	err   error
}

func newMemLeadRepo() *memLeadRepo {
	return &memLeadRepo{leads: map[string]*entity.Lead{}}
}

func (r *memLeadRepo) Upsert(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, l := range r.leads {
		if l.AccountID == lead.AccountID && l.Phone == lead.Phone && l.ID != lead.ID {
			lead.ID = l.ID
		}
	}
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *memLeadRepo) FindByID(_ context.Context, accountID, id string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok || l.AccountID != accountID {
		return nil, entity.ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLeadRepo) FindByPhone(_ context.Context, accountID, phone string) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.AccountID == accountID && l.Phone == phone {
			cp := *l
			return &cp, nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (r *memLeadRepo) List(_ context.Context, accountID string) ([]*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Lead
	for _, l := range r.leads {
		if l.AccountID == accountID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivity.After(out[j].LastActivity) })
	return out, nil
}

func (r *memLeadRepo) Delete(_ context.Context, accountID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.leads[id]; ok && l.AccountID == accountID {
		delete(r.leads, id)
	}
	return nil
}

func (r *memLeadRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.leads)
}

type memMessageRepo struct {
	mu   sync.Mutex
	msgs []*entity.Message
}

func (r *memMessageRepo) Create(_ context.Context, msg *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *memMessageRepo) ListByLead(_ context.Context, leadID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.msgs {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) byDirection(dir entity.MessageDirection) []*entity.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.msgs {
		if m.Direction == dir {
			out = append(out, m)
		}
	}
	return out
}

type memFlowRepo struct {
	mu    sync.Mutex
	flows []*entity.Flow
}

func (r *memFlowRepo) Save(_ context.Context, flow *entity.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.flows {
		if f.ID == flow.ID {
			r.flows[i] = flow
			return nil
		}
	}
	r.flows = append(r.flows, flow)
	return nil
}

func (r *memFlowRepo) FindByID(_ context.Context, accountID, id string) (*entity.Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.flows {
		if f.ID == id && f.AccountID == accountID {
			return f, nil
		}
	}
	return nil, entity.ErrFlowNotFound
}

func (r *memFlowRepo) List(_ context.Context, accountID string) ([]*entity.Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Flow
	for _, f := range r.flows {
		if f.AccountID == accountID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFlowRepo) Delete(_ context.Context, accountID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.flows {
		if f.ID == id && f.AccountID == accountID {
			r.flows = append(r.flows[:i], r.flows[i+1:]...)
			return nil
		}
	}
	return nil
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]entity.Settings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{settings: map[string]entity.Settings{}}
}

func (r *memSettingsRepo) Get(_ context.Context, accountID string) (*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[accountID]
	if !ok {
		return nil, entity.ErrSettingsNotFound
	}
	return &s, nil
}

// Upsert preserva contador, last_error e status numa linha existente, como o banco.
func (r *memSettingsRepo) Upsert(_ context.Context, s *entity.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *s
	if existing, ok := r.settings[s.ID]; ok {
		row.UsedMessages = existing.UsedMessages
		row.LastError = existing.LastError
		row.ConnectionStatus = existing.ConnectionStatus
	}
	r.settings[s.ID] = row
	return nil
}

func (r *memSettingsRepo) update(accountID string, fn func(s *entity.Settings)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[accountID]
	if !ok {
		return entity.ErrSettingsNotFound
	}
	fn(&s)
	r.settings[accountID] = s
	return nil
}

func (r *memSettingsRepo) IncrementUsage(_ context.Context, accountID string) error {
	return r.update(accountID, func(s *entity.Settings) { s.UsedMessages++ })
}

func (r *memSettingsRepo) SetLastError(_ context.Context, accountID, message string) error {
	return r.update(accountID, func(s *entity.Settings) { s.LastError = message })
}

func (r *memSettingsRepo) ClearLastError(_ context.Context, accountID, seen string) error {
	return r.update(accountID, func(s *entity.Settings) {
		if s.LastError == seen {
			s.LastError = ""
		}
	})
}

func (r *memSettingsRepo) SetConnectionStatus(_ context.Context, accountID string, status entity.ConnectionStatus) error {
	return r.update(accountID, func(s *entity.Settings) { s.ConnectionStatus = status })
}

func (r *memSettingsRepo) ListActive(_ context.Context) ([]*entity.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Settings
	for _, s := range r.settings {
		if s.IsActive {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSettingsRepo) current(accountID string) entity.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings[accountID]
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*entity.Account{}}
}

func (r *memAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return entity.ErrEmailAlreadyExists
		}
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *memAccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, entity.ErrAccountNotFound
}

func (r *memAccountRepo) FindByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, entity.ErrAccountNotFound
	}
	return a, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*entity.Session{}}
}

func (r *memSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = s
	return nil
}

func (r *memSessionRepo) Find(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return entity.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}
