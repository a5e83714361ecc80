package model

import "strings"

// ConversationState is the snapshot the presentation layer renders from.
// Transitions return a new value and never mutate the receiver's messages.
type ConversationState struct {
	Messages        []Message
	IsResponding    bool
	IsRecording     bool
	UseRemoteMode   bool
	NeedsCredential bool
}

func NewConversationState(greeting Message, useRemoteMode bool) ConversationState {
	return ConversationState{
		Messages:      []Message{greeting},
		UseRemoteMode: useRemoteMode,
	}
}

func (s ConversationState) WithMessage(msg Message) ConversationState {
	messages := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(messages, s.Messages)
	s.Messages = append(messages, msg)
	return s
}

func (s ConversationState) WithResponding(responding bool) ConversationState {
	s.IsResponding = responding
	return s
}

func (s ConversationState) WithRecording(recording bool) ConversationState {
	s.IsRecording = recording
	return s
}

func (s ConversationState) WithRemoteMode(remote bool) ConversationState {
	s.UseRemoteMode = remote
	return s
}

func (s ConversationState) WithNeedsCredential(needs bool) ConversationState {
	s.NeedsCredential = needs
	return s
}

// Reset drops every message and reseeds the greeting. Mode and recording
// latch are kept.
func (s ConversationState) Reset(greeting Message) ConversationState {
	s.Messages = []Message{greeting}
	s.IsResponding = false
	return s
}

// Clone returns a copy whose message slice does not alias the receiver's.
func (s ConversationState) Clone() ConversationState {
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	s.Messages = messages
	return s
}

func (s ConversationState) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidInput
	}
	return nil
}
