package usecase

import (
	"sync"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []string
	requests []api.Chattable
}

func (b *fakeBot) Send(c api.Chattable) (api.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := c.(api.MessageConfig); ok {
		b.sent = append(b.sent, msg.Text)
	}
	return api.Message{}, nil
}

func (b *fakeBot) Request(c api.Chattable) (*api.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &api.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(api.UpdateConfig) api.UpdatesChannel {
	return make(chan api.Update)
}

func (b *fakeBot) Sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sent...)
}

func (b *fakeBot) Requests() []api.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.Chattable(nil), b.requests...)
}

func newTestTelegramUsecase(t *testing.T, cfg config.Telegram) (*TelegramUsecase, *fakeBot) {
	t.Helper()
	bot := &fakeBot{}
	local := NewDefaultLocalMatcherUsecase(&sequenceRand{values: []int{0}})
	conversationCfg := testConversationConfig()
	conversationCfg.LocalResponseDelay = 0
	telegram, err := NewTelegramUsecase(
		cfg, TelegramUsecaseDeps{
			Bot: bot,
			NewConversation: func(notices NoticeSink) *ConversationUsecase {
				return NewConversationUsecase(
					ConversationDeps{
						Local:   local,
						Remote:  &fakeRemote{},
						Notices: notices,
						Clock:   newManualClock(),
					}, conversationCfg, "",
				)
			},
		},
	)
	require.NoError(t, err)
	t.Cleanup(telegram.closeSessions)
	return telegram, bot
}

func (t *TelegramUsecase) conversationFor(chatID int64) *ConversationUsecase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[chatID].conversation
}

func TestTelegramUsecase_RegistersCommands(t *testing.T) {
	_, bot := newTestTelegramUsecase(t, config.Telegram{})

	requests := bot.Requests()
	require.Len(t, requests, 1)
	_, ok := requests[0].(api.SetMyCommandsConfig)
	assert.True(t, ok)
}

func TestTelegramUsecase_AnswersLocally(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(t, config.Telegram{})

	require.NoError(t, telegram.handleMessage(1, 1, 10, "I have a headache", "", ""))
	telegram.conversationFor(1).Wait()

	assert.Equal(t, []string{ResponseHeadache}, bot.Sent())
	var typing int
	for _, request := range bot.Requests() {
		if _, ok := request.(api.ChatActionConfig); ok {
			typing++
		}
	}
	assert.Equal(t, 1, typing)
	assert.Len(t, telegram.conversationFor(1).State().Messages, 3)
}

func TestTelegramUsecase_IgnoresBlankText(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(t, config.Telegram{})

	require.NoError(t, telegram.handleMessage(1, 1, 10, "   ", "", ""))
	assert.Empty(t, bot.Sent())
	assert.Len(t, telegram.conversationFor(1).State().Messages, 1)
}

func TestTelegramUsecase_Commands(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(t, config.Telegram{})

	require.NoError(t, telegram.handleMessage(1, 1, 10, "/start", CommandStart, ""))
	require.NoError(t, telegram.handleMessage(1, 1, 11, "/mode", CommandMode, ""))
	require.NoError(t, telegram.handleMessage(1, 1, 12, "/mic", CommandMic, ""))
	require.NoError(t, telegram.handleMessage(1, 1, 13, "/unknown", "unknown", ""))

	sent := bot.Sent()
	require.Len(t, sent, 4)
	assert.Equal(t, TextGreeting.Default, sent[0])
	assert.Contains(t, sent[1], TextNoticeModeRemote.Default)
	assert.Contains(t, sent[2], TextNoticeRecording.Default)
	assert.Equal(t, MessageCommandUnknown, sent[3])

	conversation := telegram.conversationFor(1)
	assert.True(t, conversation.State().UseRemoteMode)
	assert.True(t, conversation.State().IsRecording)
}

func TestTelegramUsecase_ClearSendsGreeting(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(t, config.Telegram{})

	require.NoError(t, telegram.handleMessage(1, 1, 10, "I have a fever", "", ""))
	telegram.conversationFor(1).Wait()
	require.NoError(t, telegram.handleMessage(1, 1, 11, "/clear", CommandClear, ""))

	assert.Equal(t, []string{ResponseFever, TextGreeting.Default}, bot.Sent())
	assert.Len(t, telegram.conversationFor(1).State().Messages, 1)
}

func TestTelegramUsecase_KeyCommandDeletesMessage(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(t, config.Telegram{})

	require.NoError(t, telegram.handleMessage(1, 1, 42, "/key sk-secret", CommandKey, " sk-secret "))

	var deleted bool
	for _, request := range bot.Requests() {
		if cfg, ok := request.(api.DeleteMessageConfig); ok {
			deleted = true
			assert.Equal(t, 42, cfg.MessageID)
		}
	}
	assert.True(t, deleted)
	sent := bot.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], TextNoticeCredentialSet.Default)
	assert.NotContains(t, sent[0], "sk-secret")
}

func TestTelegramUsecase_NotPublic(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(
		t, config.Telegram{
			IsNotPublic:       true,
			AllowedTelegramID: []int64{7},
		},
	)

	require.NoError(t, telegram.handleMessage(1, 1, 10, "I have a headache", "", ""))
	assert.Equal(t, []string{MessageUserNoAccess}, bot.Sent())
	telegram.mu.Lock()
	assert.Empty(t, telegram.sessions)
	telegram.mu.Unlock()

	require.NoError(t, telegram.handleMessage(7, 7, 11, "I have a headache", "", ""))
	telegram.conversationFor(7).Wait()
	assert.Equal(t, []string{MessageUserNoAccess, ResponseHeadache}, bot.Sent())
}

func TestTelegramUsecase_NotPublicChecksSender(t *testing.T) {
	telegram, bot := newTestTelegramUsecase(
		t, config.Telegram{
			IsNotPublic:       true,
			AllowedTelegramID: []int64{7},
		},
	)
	const groupChat = int64(-100)

	require.NoError(t, telegram.handleMessage(groupChat, 8, 10, "I have a headache", "", ""))
	assert.Equal(t, []string{MessageUserNoAccess}, bot.Sent())

	require.NoError(t, telegram.handleMessage(groupChat, 7, 11, "I have a headache", "", ""))
	telegram.conversationFor(groupChat).Wait()
	assert.Equal(t, []string{MessageUserNoAccess, ResponseHeadache}, bot.Sent())

	// a private chat whose ID is allowed but whose sender is not
	require.NoError(t, telegram.handleMessage(7, 9, 12, "I have a headache", "", ""))
	assert.Equal(t, []string{MessageUserNoAccess, ResponseHeadache, MessageUserNoAccess}, bot.Sent())
}
