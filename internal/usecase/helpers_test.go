package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
)

type clockWaiter struct {
	at time.Time
	ch chan time.Time
}

// manualClock only moves when Advance is called. Zero delays fire at once.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []clockWaiter
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, clockWaiter{at: c.now.Add(d), ch: ch})
	return ch
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if w.at.After(c.now) {
			remaining = append(remaining, w)
			continue
		}
		w.ch <- c.now
	}
	c.waiters = remaining
}

func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// sequenceRand returns values in order, wrapping around.
type sequenceRand struct {
	mu     sync.Mutex
	values []int
	next   int
}

func (r *sequenceRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

type recordingNotices struct {
	mu      sync.Mutex
	notices []model.Notice
}

func (r *recordingNotices) Notify(notice model.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

func (r *recordingNotices) All() []model.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notice(nil), r.notices...)
}

type fakeRemote struct {
	calls   atomic.Int32
	resolve func(ctx context.Context, input, credential string) model.ResponseOutcome
}

func (f *fakeRemote) ResolveRemotely(ctx context.Context, input, credential string) model.ResponseOutcome {
	f.calls.Add(1)
	return f.resolve(ctx, input, credential)
}

func testConversationConfig() config.Conversation {
	return config.Conversation{
		LocalResponseDelay:  1500 * time.Millisecond,
		RecordingDuration:   3 * time.Second,
		InfoNoticeDuration:  3 * time.Second,
		ErrorNoticeDuration: 5 * time.Second,
		Language:            "en",
	}
}

func testOpenAIConfig(baseURL string) config.OpenAI {
	return config.OpenAI{
		OpenAIModel:      "gpt-3.5-turbo",
		OpenAIBaseURL:    baseURL,
		ModelTemperature: 0.7,
		MaxTokens:        500,
		RequestTimeout:   5 * time.Second,
	}
}
