package core

import (
	"github.com/putto11262002/guestbook/store"
)

// Attribute names of a stored message item.
const (
	AttrMessageID = "message_id"
	AttrMessage   = "message"
	AttrTimestamp = "timestamp"
)

// Message is a guestbook entry. It is never updated or deleted once stored.
type Message struct {
	ID string
	// Text is never empty.
	Text string
	// CreatedAt is in seconds since the Unix epoch.
	CreatedAt int64
}

func (m Message) Item() store.Item {
	return store.Item{
		AttrMessageID: store.String(m.ID),
		AttrMessage:   store.String(m.Text),
		AttrTimestamp: store.Number(m.CreatedAt),
	}
}

func MessageFromItem(item store.Item) (Message, error) {
	id, err := item.String(AttrMessageID)
	if err != nil {
		return Message{}, err
	}
	text, err := item.String(AttrMessage)
	if err != nil {
		return Message{}, err
	}
	createdAt, err := item.Int(AttrTimestamp)
	if err != nil {
		return Message{}, err
	}
	return Message{ID: id, Text: text, CreatedAt: createdAt}, nil
}

type CreateMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type CreateMessageResponse struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

func NewMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		MessageID: m.ID,
		Message:   m.Text,
		Timestamp: m.CreatedAt,
	}
}
