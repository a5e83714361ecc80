package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/redis/go-redis/v9"
)

var (
	ErrTranscriptDoesNotExist = errors.New("transcript does not exist")
)

const sessionsKey = "transcript_sessions"

type messageInternal struct {
	ID        string              `json:"id"`
	Source    model.MessageSource `json:"source"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"created_at"`
}

type transcriptInternal struct {
	SessionID string            `json:"session_id"`
	Messages  []messageInternal `json:"messages"`
}

type TranscriptStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTranscriptStorage(rdb *redis.Client, ttl time.Duration) *TranscriptStorage {
	return &TranscriptStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (t *TranscriptStorage) SaveTranscript(ctx context.Context, sessionID uuid.UUID, messages []model.Message) error {
	transcriptInt := transcriptInternal{
		SessionID: sessionID.String(),
		Messages:  make([]messageInternal, 0, len(messages)),
	}
	for _, msg := range messages {
		transcriptInt.Messages = append(
			transcriptInt.Messages, messageInternal{
				ID:        msg.ID.String(),
				Source:    msg.Source,
				Text:      msg.Text,
				CreatedAt: msg.CreatedAt,
			},
		)
	}
	transcriptJSON, err := json.Marshal(transcriptInt)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	pipe := t.rdb.TxPipeline()
	pipe.Set(ctx, getTranscriptKey(sessionID), transcriptJSON, t.ttl)
	pipe.SAdd(ctx, sessionsKey, sessionID.String())
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save transcript %s: %w", sessionID, err)
	}
	return nil
}

func (t *TranscriptStorage) GetTranscript(ctx context.Context, sessionID uuid.UUID) ([]model.Message, error) {
	raw, err := t.rdb.Get(ctx, getTranscriptKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTranscriptDoesNotExist
		}
		return nil, fmt.Errorf("failed to get transcript %s: %w", sessionID, err)
	}
	var transcriptInt transcriptInternal
	if err = json.Unmarshal([]byte(raw), &transcriptInt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript %s: %w", sessionID, err)
	}

	messages := make([]model.Message, 0, len(transcriptInt.Messages))
	for _, msg := range transcriptInt.Messages {
		messageID, err := uuid.Parse(msg.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message id %s: %w", msg.ID, err)
		}
		messages = append(
			messages, model.Message{
				ID:        messageID,
				Source:    msg.Source,
				Text:      msg.Text,
				CreatedAt: msg.CreatedAt,
			},
		)
	}
	return messages, nil
}

// ListSessions returns every session ever saved, including ones whose
// transcript has already expired.
func (t *TranscriptStorage) ListSessions(ctx context.Context) ([]uuid.UUID, error) {
	members, err := t.rdb.SMembers(ctx, sessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		sessionID, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("failed to parse session id %s: %w", member, err)
		}
		sessions = append(sessions, sessionID)
	}
	return sessions, nil
}

func getTranscriptKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("transcript_%s", sessionID)
}
