package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	in_memory "github.com/iamvkosarev/health-assistant-bot/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/health-assistant-bot/internal/storage/key-value"
)

type transcriptReader interface {
	ListSessions(ctx context.Context) ([]uuid.UUID, error)
	GetTranscript(ctx context.Context, sessionID uuid.UUID) ([]model.Message, error)
}

// PrintTranscripts writes the archived sessions to out, or the messages of a
// single session when sessionID is set. Only the redis archive outlives the
// process, so a redis endpoint is required.
func PrintTranscripts(ctx context.Context, cfg *config.Config, sessionID string, out io.Writer) error {
	if cfg.Redis.Endpoint == "" {
		return fmt.Errorf("REDIS_ENDPOINT is required to read archived transcripts")
	}
	storage, closeFn, err := dialRedisTranscripts(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeFn()
	return printTranscripts(ctx, storage, sessionID, out)
}

func printTranscripts(ctx context.Context, reader transcriptReader, sessionID string, out io.Writer) error {
	if sessionID == "" {
		return printSessions(ctx, reader, out)
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	messages, err := reader.GetTranscript(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}
	for _, msg := range messages {
		if _, err = fmt.Fprintf(
			out, "[%s] %s: %s\n", msg.CreatedAt.Format("2006-01-02 15:04:05"), msg.Source, msg.Text,
		); err != nil {
			return err
		}
	}
	return nil
}

func printSessions(ctx context.Context, reader transcriptReader, out io.Writer) error {
	sessions, err := reader.ListSessions(ctx)
	if err != nil {
		return err
	}
	sort.Slice(
		sessions, func(i, j int) bool {
			return sessions[i].String() < sessions[j].String()
		},
	)
	for _, sessionID := range sessions {
		messages, err := reader.GetTranscript(ctx, sessionID)
		switch {
		case isTranscriptMissing(err):
			_, err = fmt.Fprintf(out, "%s\texpired\n", sessionID)
		case err != nil:
			return fmt.Errorf("failed to read transcript: %w", err)
		default:
			_, err = fmt.Fprintf(out, "%s\t%d messages\n", sessionID, len(messages))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isTranscriptMissing(err error) bool {
	return errors.Is(err, key_value.ErrTranscriptDoesNotExist) || errors.Is(err, in_memory.ErrTranscriptDoesNotExist)
}
