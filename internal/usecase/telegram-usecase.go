package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	MessageUserNoAccess   = "You are not allowed to use this bot"
	MessageCommandHelp    = "Ask any health question. Use /mode to switch between AI and local answers, /clear to start over, /key <api key> to set your OpenAI key."
	MessageCommandUnknown = "I don't know that command"
	MessageBusy           = "Please wait, I'm still answering your previous question."

	CommandStart = "start"
	CommandHelp  = "help"
	CommandClear = "clear"
	CommandNew   = "new"
	CommandMode  = "mode"
	CommandMic   = "mic"
	CommandKey   = "key"
)

// Bot is the part of *api.BotAPI the adapter uses.
type Bot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
}

type TelegramUsecaseDeps struct {
	Bot             Bot
	NewConversation func(notices NoticeSink) *ConversationUsecase
}

type telegramSession struct {
	conversation *ConversationUsecase
	unsubscribe  func()
}

// TelegramUsecase renders one conversation per Telegram chat.
type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	allowedUsers map[int64]struct{}

	mu       sync.Mutex
	sessions map[int64]*telegramSession
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	allowedUsers := make(map[int64]struct{})
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{
					Command:     CommandHelp,
					Description: "Get help",
				},
				{
					Command:     CommandMode,
					Description: "Switch between AI and local answers",
				},
				{
					Command:     CommandClear,
					Description: "Clear the conversation",
				},
				{
					Command:     CommandMic,
					Description: "Voice input",
				},
				{
					Command:     CommandKey,
					Description: "Set your OpenAI API key",
				},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		allowedUsers:        allowedUsers,
		sessions:            make(map[int64]*telegramSession),
	}, nil
}

func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = 60

	updates := t.Bot.GetUpdatesChan(u)
	defer t.closeSessions()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			msg := update.Message
			var command, args string
			if msg.IsCommand() {
				command = msg.Command()
				args = msg.CommandArguments()
			}
			userID := msg.Chat.ID
			if msg.From != nil {
				userID = msg.From.ID
			}
			if err := t.handleMessage(msg.Chat.ID, userID, msg.MessageID, msg.Text, command, args); err != nil {
				log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("error handling message")
			}
		}
	}
}

// handleMessage checks access by the sender's user ID; the session is keyed by
// chat ID, so a group chat shares one conversation.
func (t *TelegramUsecase) handleMessage(chatID, userID int64, messageID int, text, command, args string) error {
	if t.cfg.IsNotPublic {
		if _, ok := t.allowedUsers[userID]; !ok {
			t.sendMessageAndHandleErr(chatID, MessageUserNoAccess)
			return nil
		}
	}

	session := t.getSession(chatID)
	conversation := session.conversation

	if command != "" {
		switch command {
		case CommandStart:
			if state := conversation.State(); len(state.Messages) > 0 {
				t.sendMessageAndHandleErr(chatID, state.Messages[0].Text)
			}
		case CommandHelp:
			t.sendMessageAndHandleErr(chatID, MessageCommandHelp)
		case CommandClear, CommandNew:
			conversation.ClearChat()
		case CommandMode:
			conversation.ToggleMode()
		case CommandMic:
			conversation.ToggleMic()
		case CommandKey:
			// the key should not stay in the chat history
			if _, err := t.Bot.Request(api.NewDeleteMessage(chatID, messageID)); err != nil {
				log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to delete api key message")
			}
			conversation.SetCredential(strings.TrimSpace(args))
		default:
			t.sendMessageAndHandleErr(chatID, MessageCommandUnknown)
		}
		return nil
	}

	if model.ValidateInput(text) != nil {
		return nil
	}
	if !conversation.Submit(text) {
		t.sendMessageAndHandleErr(chatID, MessageBusy)
	}
	return nil
}

func (t *TelegramUsecase) getSession(chatID int64) *telegramSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	if session, ok := t.sessions[chatID]; ok {
		return session
	}

	conversation := t.NewConversation(
		NoticeSinkFunc(
			func(notice model.Notice) {
				t.sendMessageAndHandleErr(chatID, formatNotice(notice))
			},
		),
	)
	session := &telegramSession{conversation: conversation}
	session.unsubscribe = conversation.Subscribe(t.renderer(chatID, conversation.State()))
	t.sessions[chatID] = session
	log.Info().Int64("chat_id", chatID).Str("session_id", conversation.SessionID().String()).Msg("session started")
	return session
}

// renderer sends assistant messages that appear in a snapshot and were not
// in any earlier one, and a typing action when a turn starts.
func (t *TelegramUsecase) renderer(chatID int64, initial model.ConversationState) func(model.ConversationState) {
	seen := make(map[uuid.UUID]struct{}, len(initial.Messages))
	for _, msg := range initial.Messages {
		seen[msg.ID] = struct{}{}
	}
	responding := initial.IsResponding
	return func(state model.ConversationState) {
		if state.IsResponding && !responding {
			if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
				log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send typing action")
			}
		}
		responding = state.IsResponding

		for _, msg := range state.Messages {
			if _, ok := seen[msg.ID]; ok {
				continue
			}
			seen[msg.ID] = struct{}{}
			if msg.Source == model.MessageSourceAssistant {
				t.sendMessageAndHandleErr(chatID, msg.Text)
			}
		}
	}
}

func (t *TelegramUsecase) closeSessions() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for chatID, session := range t.sessions {
		session.unsubscribe()
		session.conversation.Close()
		delete(t.sessions, chatID)
	}
}

func formatNotice(notice model.Notice) string {
	prefix := "ℹ️"
	if notice.Kind == model.NoticeKindError {
		prefix = "⚠️"
	}
	return fmt.Sprintf("%s %s\n%s", prefix, notice.Title, notice.Message)
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) api.Message {
	msg, err := t.sendMessage(chatID, message)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send new message to bot")
	}
	return msg
}

func (t *TelegramUsecase) sendMessage(chatID int64, message string) (api.Message, error) {
	return t.sendToBot(api.NewMessage(chatID, message))
}

func (t *TelegramUsecase) sendToBot(c api.Chattable) (api.Message, error) {
	return t.Bot.Send(c)
}
