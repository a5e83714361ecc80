package model

import (
	"time"

	"github.com/google/uuid"
)

type MessageSource string

const (
	MessageSourceUser      = MessageSource("user")
	MessageSourceAssistant = MessageSource("assistant")
)

type Message struct {
	ID        uuid.UUID
	Text      string
	Source    MessageSource
	CreatedAt time.Time
}

func NewMessage(text string, source MessageSource, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Text:      text,
		Source:    source,
		CreatedAt: now,
	}
}
