package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/xavierca1/autoseller/internal/entity"
)

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logrus.FieldLogger
}

// NewClient cria o cliente do gateway. rps limita as chamadas de saída
// somando todas as contas.
func NewClient(rps float64, log logrus.FieldLogger) *Client {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        log,
	}
}

func (c *Client) SendText(ctx context.Context, conn Connection, number, text string) error {
	input := SendTextInput{Number: number, Text: text}

	var out SendMessageResponse
	if err := c.do(ctx, conn, http.MethodPost, "/message/sendText/", input, &out); err != nil {
		return err
	}

	c.log.WithField("number", number).Info("✅ WhatsApp: mensagem enviada")
	return nil
}

// SendMedia envia imagem, vídeo ou áudio. Áudio usa o endpoint próprio
// para chegar como mensagem de voz.
func (c *Client) SendMedia(ctx context.Context, conn Connection, number string, mediaType entity.MessageType, mediaURL string) error {
	var out SendMessageResponse

	if mediaType == entity.MessageAudio {
		input := SendAudioInput{Number: number, Audio: mediaURL}
		return c.do(ctx, conn, http.MethodPost, "/message/sendWhatsAppAudio/", input, &out)
	}

	input := SendMediaInput{
		Number:    number,
		MediaType: string(mediaType),
		Media:     mediaURL,
	}
	return c.do(ctx, conn, http.MethodPost, "/message/sendMedia/", input, &out)
}

func (c *Client) Connect(ctx context.Context, conn Connection) (*QRCode, error) {
	var qr QRCode
	if err := c.do(ctx, conn, http.MethodGet, "/instance/connect/", nil, &qr); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) ConnectionState(ctx context.Context, conn Connection) (entity.ConnectionStatus, error) {
	var out ConnectionStateResponse
	if err := c.do(ctx, conn, http.MethodGet, "/instance/connectionState/", nil, &out); err != nil {
		return entity.ConnectionDisconnected, err
	}
	return ToConnectionStatus(out.Instance.State), nil
}

func ToConnectionStatus(state string) entity.ConnectionStatus {
	switch strings.ToLower(state) {
	case "open":
		return entity.ConnectionConnected
	case "connecting":
		return entity.ConnectionConnecting
	default:
		return entity.ConnectionDisconnected
	}
}

func (c *Client) do(ctx context.Context, conn Connection, method, path string, payload, out any) error {
	if conn.ServerURL == "" || conn.APIKey == "" || conn.Instance == "" {
		return fmt.Errorf("gateway não configurado")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit do gateway: %w", err)
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("erro ao serializar payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	url := strings.TrimRight(conn.ServerURL, "/") + path + conn.Instance
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}
	req.Header.Set("apikey", conn.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("erro de conexão com o gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"path":   path,
		}).Warn("❌ WhatsApp: gateway retornou erro")
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("erro ao parsear resposta do gateway: %w", err)
	}
	return nil
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	var parsed ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &parsed); err == nil && len(parsed.Response.Message) > 0 {
		return fmt.Sprintf("gateway %d: %s", e.StatusCode, strings.Join(parsed.Response.Message, "; "))
	}
	return fmt.Sprintf("gateway %d: %s", e.StatusCode, e.Body)
}
