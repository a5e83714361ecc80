package app

import (
	"context"
	"fmt"
	"net/url"
	"os"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/health-assistant-bot/config"
	in_memory "github.com/iamvkosarev/health-assistant-bot/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/health-assistant-bot/internal/storage/key-value"
	"github.com/iamvkosarev/health-assistant-bot/internal/usecase"
	"github.com/peterh/liner"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func Run(ctx context.Context, cfg *config.Config) error {
	baseURL, err := url.JoinPath(cfg.OpenAI.OpenAIBaseURL, "/v1")
	if err != nil {
		return fmt.Errorf("invalid openai base url: %w", err)
	}
	cfg.OpenAI.OpenAIBaseURL = baseURL

	localMatcher := usecase.NewDefaultLocalMatcherUsecase(nil)
	remoteResponder := usecase.NewRemoteResponderUsecase(
		usecase.RemoteResponderDeps{
			Local: localMatcher,
		}, cfg.OpenAI, cfg.Conversation,
	)

	transcripts, closeTranscripts, err := newTranscriptStorage(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeTranscripts()

	newConversation := func(notices usecase.NoticeSink) *usecase.ConversationUsecase {
		return usecase.NewConversationUsecase(
			usecase.ConversationDeps{
				Local:       localMatcher,
				Remote:      remoteResponder,
				Notices:     notices,
				Transcripts: transcripts,
			}, cfg.Conversation, cfg.OpenAI.OpenAIAPIKey,
		)
	}

	switch cfg.Transport {
	case config.TransportTelegram:
		return runTelegram(ctx, cfg.Telegram, newConversation)
	case config.TransportConsole, "":
		return runConsole(ctx, newConversation)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func newTranscriptStorage(ctx context.Context, cfg config.Redis) (usecase.TranscriptStorage, func(), error) {
	if cfg.Endpoint == "" {
		return in_memory.NewTranscriptStorage(), func() {}, nil
	}
	storage, closeFn, err := dialRedisTranscripts(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("endpoint", cfg.Endpoint).Msg("transcripts are stored in redis")
	return storage, closeFn, nil
}

func dialRedisTranscripts(ctx context.Context, cfg config.Redis) (*key_value.TranscriptStorage, func(), error) {
	rdb := redis.NewClient(
		&redis.Options{
			Addr: cfg.Endpoint,
		},
	)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Endpoint, err)
	}
	return key_value.NewTranscriptStorage(rdb, cfg.TranscriptTTL), func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}, nil
}

func runTelegram(
	ctx context.Context,
	cfg config.Telegram,
	newConversation func(notices usecase.NoticeSink) *usecase.ConversationUsecase,
) error {
	if cfg.TelegramAPIToken == "" {
		return fmt.Errorf("TELEGRAM_APITOKEN is required for the telegram transport")
	}
	bot, err := api.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	log.Info().Str("account", bot.Self.UserName).Msg("authorized on telegram")

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg, usecase.TelegramUsecaseDeps{
			Bot:             bot,
			NewConversation: newConversation,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}
	return telegramUsecase.Run(ctx)
}

func runConsole(
	ctx context.Context,
	newConversation func(notices usecase.NoticeSink) *usecase.ConversationUsecase,
) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	console := usecase.NewConsoleUsecase(
		usecase.ConsoleUsecaseDeps{
			Reader: line,
			Out:    os.Stdout,
		},
	)
	conversation := newConversation(console)
	defer conversation.Close()
	console.Conversation = conversation

	return console.Run(ctx)
}
