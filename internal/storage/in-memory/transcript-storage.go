package in_memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
)

var (
	ErrTranscriptDoesNotExist = errors.New("transcript does not exist")
)

type TranscriptStorage struct {
	mu          sync.RWMutex
	transcripts map[uuid.UUID][]model.Message
}

func NewTranscriptStorage() *TranscriptStorage {
	return &TranscriptStorage{
		transcripts: make(map[uuid.UUID][]model.Message),
	}
}

func (t *TranscriptStorage) SaveTranscript(_ context.Context, sessionID uuid.UUID, messages []model.Message) error {
	stored := make([]model.Message, len(messages))
	copy(stored, messages)
	t.mu.Lock()
	t.transcripts[sessionID] = stored
	t.mu.Unlock()
	return nil
}

func (t *TranscriptStorage) GetTranscript(_ context.Context, sessionID uuid.UUID) ([]model.Message, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	messages, ok := t.transcripts[sessionID]
	if !ok {
		return nil, ErrTranscriptDoesNotExist
	}
	result := make([]model.Message, len(messages))
	copy(result, messages)
	return result, nil
}

func (t *TranscriptStorage) ListSessions(_ context.Context) ([]uuid.UUID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sessions := make([]uuid.UUID, 0, len(t.transcripts))
	for sessionID := range t.transcripts {
		sessions = append(sessions, sessionID)
	}
	return sessions, nil
}
