package entity

import (
	"context"
	"time"
)

const DefaultMessageLimit = 50

const DefaultSalesPrompt = `Você é um Vendedor Automático de elite especializado em fechamento via WhatsApp.
Seu objetivo é conduzir o lead pelo funil de vendas de forma natural, persuasiva e empática.

REGRAS:
1. Seja breve e direto (máximo 3 frases).
2. Sempre termine com uma pergunta para manter o engajamento.
3. Adapte seu tom conforme o estágio atual.
4. Identifique objeções e use técnicas de contorno.
5. Se o lead demonstrar intenção de compra no estágio de 'oferta' ou 'fechamento', envie o link de pagamento.

ESTÁGIO ATUAL: {stage}
NOME DO CLIENTE: {name}
OBJETIVO DO ESTÁGIO: {objective}`

// DefaultObjectionScripts devolve uma cópia nova a cada chamada.
func DefaultObjectionScripts() map[string]string {
	return map[string]string{
		"caro":       "Entendo perfeitamente. O investimento pode parecer alto inicialmente, mas se você considerar o ROI de [X], o sistema se paga em menos de 2 meses. Podemos parcelar para facilitar?",
		"vou pensar": "Claro, uma decisão importante precisa de reflexão. Mas me diga, o que exatamente ainda te deixa inseguro para podermos resolver agora?",
		"sem tempo":  "Justamente por isso você precisa disso. Nossa solução automatiza [X] horas do seu dia. Quanto vale recuperar 2 horas diárias da sua vida?",
	}
}

type ConnectionStatus string

const (
	ConnectionDisconnected ConnectionStatus = "disconnected"
	ConnectionConnecting   ConnectionStatus = "connecting"
	ConnectionConnected    ConnectionStatus = "connected"
)

type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "trial"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Settings tem uma linha por conta. O ID é o próprio account_id.
type Settings struct {
	ID                 string             `json:"id"`
	SalesPrompt        string             `json:"sales_prompt"`
	ObjectionScripts   map[string]string  `json:"objection_scripts"`
	MessageLimit       int                `json:"message_limit"`
	UsedMessages       int                `json:"used_messages"`
	PaymentLink        string             `json:"payment_link"`
	BusinessName       string             `json:"business_name"`
	WhatsAppAPIKey     string             `json:"whatsapp_api_key"`
	WhatsAppInstanceID string             `json:"whatsapp_instance_id"`
	WhatsAppServerURL  string             `json:"whatsapp_server_url"`
	ConnectionStatus   ConnectionStatus   `json:"connection_status"`
	IsActive           bool               `json:"is_active"`
	IsTestMode         bool               `json:"is_test_mode"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	LastError          string             `json:"last_error,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func DefaultSettings(accountID, businessName string) *Settings {
	if businessName == "" {
		businessName = "Minha Empresa Tech"
	}
	return &Settings{
		ID:                 accountID,
		SalesPrompt:        DefaultSalesPrompt,
		ObjectionScripts:   DefaultObjectionScripts(),
		MessageLimit:       DefaultMessageLimit,
		BusinessName:       businessName,
		ConnectionStatus:   ConnectionDisconnected,
		IsTestMode:         true,
		SubscriptionStatus: SubscriptionTrial,
		UpdatedAt:          time.Now().UTC(),
	}
}

func (s *Settings) QuotaExhausted() bool {
	return s.UsedMessages >= s.MessageLimit
}

func (s *Settings) QuotaMessage() string {
	if s.IsTestMode {
		return "Você atingiu o limite de 50 mensagens do MODO TESTE. Adquira um plano para continuar."
	}
	return "Seu limite mensal de mensagens foi atingido."
}

// GatewayConfigured exige os três campos da conexão com o gateway.
func (s *Settings) GatewayConfigured() bool {
	return s.WhatsAppServerURL != "" && s.WhatsAppAPIKey != "" && s.WhatsAppInstanceID != ""
}

// SettingsRepositoryInterface: Upsert grava só os campos do operador numa
// linha existente. Contador de uso, last_error e connection_status mudam
// apenas pelas escritas pontuais abaixo.
type SettingsRepositoryInterface interface {
	Get(ctx context.Context, accountID string) (*Settings, error)
	Upsert(ctx context.Context, settings *Settings) error
	ListActive(ctx context.Context) ([]*Settings, error)
	IncrementUsage(ctx context.Context, accountID string) error
	SetLastError(ctx context.Context, accountID, message string) error
	ClearLastError(ctx context.Context, accountID, seen string) error
	SetConnectionStatus(ctx context.Context, accountID string, status ConnectionStatus) error
}
