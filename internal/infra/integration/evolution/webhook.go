package evolution

import "strings"

const EventMessagesUpsert = "messages.upsert"

// InboundText extrai telefone e texto de uma mensagem recebida. Eventos
// enviados pela própria instância, grupos e mídias são ignorados.
func (e *WebhookEvent) InboundText() (phone, text string, ok bool) {
	if !strings.EqualFold(strings.ReplaceAll(e.Event, "_", "."), EventMessagesUpsert) {
		return "", "", false
	}
	if e.Data.Key.FromMe {
		return "", "", false
	}

	jid := e.Data.Key.RemoteJid
	if jid == "" || strings.HasSuffix(jid, "@g.us") || strings.HasSuffix(jid, "@broadcast") {
		return "", "", false
	}
	phone = jid
	if i := strings.Index(jid, "@"); i >= 0 {
		phone = jid[:i]
	}

	text = e.Data.Message.Conversation
	if text == "" && e.Data.Message.ExtendedTextMessage != nil {
		text = e.Data.Message.ExtendedTextMessage.Text
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}

	return phone, text, true
}
