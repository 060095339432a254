package evolution

// Connection identifica a instância do gateway de uma conta.
type Connection struct {
	ServerURL string
	APIKey    string
	Instance  string
}

type SendTextInput struct {
	Number string `json:"number"` // Ex: "5511999999999"
	Text   string `json:"text"`
}

type SendMediaInput struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"` // image, video, document
	Media     string `json:"media"`     // URL pública
	Caption   string `json:"caption,omitempty"`
}

type SendAudioInput struct {
	Number string `json:"number"`
	Audio  string `json:"audio"`
}

type SendMessageResponse struct {
	Key struct {
		RemoteJid string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	Status string `json:"status"`
}

// QRCode é a resposta de /instance/connect.
type QRCode struct {
	PairingCode string `json:"pairingCode"`
	Code        string `json:"code"`
	Base64      string `json:"base64"`
	Count       int    `json:"count"`
}

type ConnectionStateResponse struct {
	Instance struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"` // open, connecting, close
	} `json:"instance"`
}

// WebhookEvent cobre o evento messages.upsert enviado pelo gateway.
type WebhookEvent struct {
	Event    string `json:"event"`
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
			ID        string `json:"id"`
		} `json:"key"`
		PushName    string `json:"pushName"`
		MessageType string `json:"messageType"`
		Message     struct {
			Conversation        string `json:"conversation"`
			ExtendedTextMessage *struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage,omitempty"`
		} `json:"message"`
	} `json:"data"`
}

type ErrorResponse struct {
	Status   int    `json:"status"`
	Error    string `json:"error"`
	Response struct {
		Message []string `json:"message"`
	} `json:"response"`
}
