package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const transcriptSaveTimeout = 5 * time.Second

type RemoteResolver interface {
	ResolveRemotely(ctx context.Context, input, credential string) model.ResponseOutcome
}

type TranscriptStorage interface {
	SaveTranscript(ctx context.Context, sessionID uuid.UUID, messages []model.Message) error
}

type ConversationDeps struct {
	Local       LocalResolver
	Remote      RemoteResolver
	Notices     NoticeSink
	Transcripts TranscriptStorage
	Clock       Clock
}

// ConversationUsecase owns one conversation's state. At most one turn is in
// flight; the rest of the API may be called at any time.
type ConversationUsecase struct {
	ConversationDeps
	cfg       config.Conversation
	notices   noticeFactory
	sessionID uuid.UUID
	logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu          sync.Mutex
	state       model.ConversationState
	credential  string
	turnGen     uint64
	turnCancel  context.CancelFunc
	micGen      uint64
	micCancel   context.CancelFunc
	subscribers map[int]func(model.ConversationState)
	nextSubID   int

	// publishMu keeps snapshots reaching subscribers in mutation order.
	publishMu sync.Mutex
}

func NewConversationUsecase(deps ConversationDeps, cfg config.Conversation, credential string) *ConversationUsecase {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	if deps.Notices == nil {
		deps.Notices = discardNotices{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	sessionID := uuid.New()
	c := &ConversationUsecase{
		ConversationDeps: deps,
		cfg:              cfg,
		notices:          newNoticeFactory(cfg),
		sessionID:        sessionID,
		logger:           log.With().Str("session_id", sessionID.String()).Logger(),
		ctx:              ctx,
		cancel:           cancel,
		credential:       credential,
		subscribers:      make(map[int]func(model.ConversationState)),
	}
	c.state = model.NewConversationState(c.greeting(), cfg.StartInRemoteMode)
	return c
}

func (c *ConversationUsecase) SessionID() uuid.UUID {
	return c.sessionID
}

func (c *ConversationUsecase) State() model.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every mutation. fn runs
// on the mutating goroutine; it may call State but not mutating methods.
func (c *ConversationUsecase) Subscribe(fn func(model.ConversationState)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// Submit starts a turn for text. It reports false, changing nothing, when
// text is blank or another turn is still in flight.
func (c *ConversationUsecase) Submit(text string) bool {
	if err := model.ValidateInput(text); err != nil {
		return false
	}

	c.lockForUpdate()
	if c.state.IsResponding {
		c.unlockWithoutPublish()
		return false
	}
	c.state = c.state.
		WithMessage(model.NewMessage(text, model.MessageSourceUser, c.Clock.Now())).
		WithResponding(true)
	remote := c.state.UseRemoteMode
	credential := c.credential
	c.turnGen++
	gen := c.turnGen
	ctx, cancel := context.WithCancel(c.ctx)
	c.turnCancel = cancel
	c.publishLocked(true)

	c.logger.Debug().Bool("remote", remote).Uint64("turn", gen).Msg("turn started")
	c.wg.Go(
		func() {
			defer cancel()
			c.runTurn(ctx, gen, text, remote, credential)
		},
	)
	return true
}

func (c *ConversationUsecase) runTurn(ctx context.Context, gen uint64, text string, remote bool, credential string) {
	if remote {
		outcome := c.Remote.ResolveRemotely(ctx, text, credential)
		c.logger.Info().
			Uint64("turn", gen).
			Stringer("outcome", outcome.Kind).
			AnErr("cause", outcome.Err).
			Msg("remote turn resolved")
		c.finishTurn(gen, outcome.Text, outcome.Notice, errors.Is(outcome.Err, model.ErrMissingCredential))
		return
	}

	select {
	case <-c.Clock.After(c.cfg.LocalResponseDelay):
	case <-ctx.Done():
		c.logger.Debug().Uint64("turn", gen).Msg("local turn cancelled")
		return
	}
	c.finishTurn(gen, c.Local.ResolveLocally(text), nil, false)
}

func (c *ConversationUsecase) finishTurn(gen uint64, reply string, notice *model.Notice, needsCredential bool) {
	c.lockForUpdate()
	if gen != c.turnGen || !c.state.IsResponding {
		c.unlockWithoutPublish()
		c.logger.Debug().Uint64("turn", gen).Msg("discarding reply of a cleared turn")
		return
	}
	c.state = c.state.
		WithMessage(model.NewMessage(reply, model.MessageSourceAssistant, c.Clock.Now())).
		WithResponding(false)
	if needsCredential {
		c.state = c.state.WithNeedsCredential(true)
	}
	c.turnCancel = nil
	c.publishLocked(true)

	if notice != nil {
		c.Notices.Notify(*notice)
	}
}

// ToggleMode flips between remote and local answering. A turn already in
// flight finishes in the mode it started with.
func (c *ConversationUsecase) ToggleMode() bool {
	c.lockForUpdate()
	remote := !c.state.UseRemoteMode
	c.state = c.state.WithRemoteMode(remote)
	c.publishLocked(false)

	c.logger.Info().Bool("remote", remote).Msg("mode toggled")
	c.Notices.Notify(c.notices.modeSwitched(remote))
	return remote
}

// ClearChat reseeds the greeting. An in-flight turn is cancelled and its
// reply, if it still arrives, is dropped.
func (c *ConversationUsecase) ClearChat() {
	c.lockForUpdate()
	if c.turnCancel != nil {
		c.turnCancel()
		c.turnCancel = nil
	}
	c.turnGen++
	c.state = c.state.Reset(c.greeting())
	c.publishLocked(true)

	c.logger.Info().Msg("chat cleared")
}

// ToggleMic latches the recording indicator. There is no transcription: the
// latch reverts on its own after the recording duration.
func (c *ConversationUsecase) ToggleMic() bool {
	c.lockForUpdate()
	if c.micCancel != nil {
		c.micCancel()
		c.micCancel = nil
	}
	c.micGen++
	if c.state.IsRecording {
		c.state = c.state.WithRecording(false)
		c.publishLocked(false)
		return false
	}

	gen := c.micGen
	ctx, cancel := context.WithCancel(c.ctx)
	c.micCancel = cancel
	c.state = c.state.WithRecording(true)
	c.publishLocked(false)

	c.Notices.Notify(c.notices.recording())
	c.wg.Go(
		func() {
			defer cancel()
			select {
			case <-c.Clock.After(c.cfg.RecordingDuration):
			case <-ctx.Done():
				return
			}
			c.lockForUpdate()
			if gen != c.micGen {
				c.unlockWithoutPublish()
				return
			}
			c.micCancel = nil
			c.state = c.state.WithRecording(false)
			c.publishLocked(false)
		},
	)
	return true
}

// SetCredential replaces the API key used by later turns; blank removes it.
func (c *ConversationUsecase) SetCredential(credential string) {
	c.lockForUpdate()
	c.credential = credential
	c.state = c.state.WithNeedsCredential(false)
	c.publishLocked(false)

	c.Notices.Notify(c.notices.credentialChanged(model.ValidateInput(credential) == nil))
}

// Wait blocks until in-flight turns and recording timers are done.
func (c *ConversationUsecase) Wait() {
	c.wg.Wait()
}

// Close cancels all background work and waits for it to stop.
func (c *ConversationUsecase) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *ConversationUsecase) greeting() model.Message {
	return model.NewMessage(c.notices.text(TextGreeting), model.MessageSourceAssistant, c.Clock.Now())
}

// lockForUpdate takes publishMu before mu, so a subscriber running under
// publishMu can still read State.
func (c *ConversationUsecase) lockForUpdate() {
	c.publishMu.Lock()
	c.mu.Lock()
}

func (c *ConversationUsecase) unlockWithoutPublish() {
	c.mu.Unlock()
	c.publishMu.Unlock()
}

// publishLocked must be called after lockForUpdate; it releases both locks and
// hands the snapshot to subscribers and the transcript store in between.
func (c *ConversationUsecase) publishLocked(messagesChanged bool) {
	snapshot := c.state.Clone()
	subscribers := make([]func(model.ConversationState), 0, len(c.subscribers))
	for id := 0; id < c.nextSubID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	c.mu.Unlock()
	defer c.publishMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
	if messagesChanged && c.Transcripts != nil {
		ctx, cancel := context.WithTimeout(context.Background(), transcriptSaveTimeout)
		defer cancel()
		if err := c.Transcripts.SaveTranscript(ctx, c.sessionID, snapshot.Messages); err != nil {
			c.logger.Error().Err(err).Msg("failed to save transcript")
		}
	}
}
