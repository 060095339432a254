package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("modelo não retornou conteúdo")

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewClient(ctx context.Context, apiKey, model string, log logrus.FieldLogger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY é obrigatório")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente Gemini: %w", err)
	}

	log.WithField("model", model).Info("🤖 Gemini inicializado")
	return &Client{
		client:  client,
		model:   model,
		timeout: 30 * time.Second,
		log:     log,
	}, nil
}

// Generate pede ao modelo a resposta do vendedor e o próximo estágio.
func (c *Client) Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	model.SystemInstruction = genai.NewUserContent(genai.Text(input.SystemInstruction))
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema

	resp, err := model.GenerateContent(ctx, genai.Text(BuildContents(input.History, input.Message)))
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar resposta: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return ParseOutput(text)
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// BuildContents monta o histórico seguido da nova mensagem do cliente.
func BuildContents(history, message string) string {
	var b strings.Builder
	b.WriteString("HISTÓRICO DA CONVERSA:\n")
	b.WriteString(history)
	b.WriteString("\n\nNOVA MENSAGEM DO CLIENTE:\n")
	b.WriteString(message)
	return b.String()
}

// ParseOutput aceita texto em volta do JSON, pegando do primeiro "{" ao
// último "}".
func ParseOutput(text string) (*GenerateOutput, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("resposta sem JSON: %q", truncate(text, 80))
	}

	var out GenerateOutput
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("erro ao parsear JSON do modelo: %w", err)
	}
	out.Reply = strings.TrimSpace(out.Reply)
	out.NextStage = strings.TrimSpace(out.NextStage)
	out.CustomerName = strings.TrimSpace(out.CustomerName)
	return &out, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// truncate corta em n runas para não quebrar acentos no meio.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
