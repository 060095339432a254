package entity

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageAudio MessageType = "audio"
	MessageVideo MessageType = "video"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageAudio, MessageVideo:
		return true
	}
	return false
}

// IsMedia indica que o conteúdo é uma URL de mídia.
func (t MessageType) IsMedia() bool {
	return t == MessageImage || t == MessageAudio || t == MessageVideo
}

type Message struct {
	ID        string           `json:"id"`
	LeadID    string           `json:"lead_id"`
	Direction MessageDirection `json:"direction"`
	Type      MessageType      `json:"type"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewMessage usa ULID para que a ordem dos IDs acompanhe created_at.
func NewMessage(leadID string, direction MessageDirection, msgType MessageType, content string) *Message {
	if msgType == "" {
		msgType = MessageText
	}
	return &Message{
		ID:        ulid.Make().String(),
		LeadID:    leadID,
		Direction: direction,
		Type:      msgType,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// MessageRepositoryInterface é um log append-only.
type MessageRepositoryInterface interface {
	Create(ctx context.Context, msg *Message) error
	ListByLead(ctx context.Context, leadID string) ([]*Message, error)
}
