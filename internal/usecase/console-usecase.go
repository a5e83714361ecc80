package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/peterh/liner"
)

const (
	consolePrompt = "you> "
	consoleHelp   = "Commands: /mode switch AI/local answers, /clear start over, /mic voice input, /key <api key> set the OpenAI key, /quit exit."
)

// LineReader is the part of *liner.State the console needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type ConsoleUsecaseDeps struct {
	Reader       LineReader
	Out          io.Writer
	Conversation *ConversationUsecase
}

// ConsoleUsecase is an interactive terminal front end for one conversation.
type ConsoleUsecase struct {
	ConsoleUsecaseDeps
	outMu sync.Mutex
	idle  chan struct{}
}

func NewConsoleUsecase(deps ConsoleUsecaseDeps) *ConsoleUsecase {
	return &ConsoleUsecase{
		ConsoleUsecaseDeps: deps,
		idle:               make(chan struct{}, 1),
	}
}

// Notify prints a notice; the console is its conversation's notice sink.
func (c *ConsoleUsecase) Notify(notice model.Notice) {
	c.printf("[%s] %s: %s\n", notice.Kind, notice.Title, notice.Message)
}

func (c *ConsoleUsecase) Run(ctx context.Context) error {
	initial := c.Conversation.State()
	for _, msg := range initial.Messages {
		c.printMessage(msg)
	}
	unsubscribe := c.Conversation.Subscribe(c.renderer(initial))
	defer unsubscribe()

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := c.Reader.Prompt(consolePrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := c.handleCommand(input); quit {
				return nil
			}
			continue
		}

		c.Reader.AppendHistory(input)
		if !c.Conversation.Submit(input) {
			c.printf("%s\n", MessageBusy)
			continue
		}
		select {
		case <-c.idle:
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *ConsoleUsecase) handleCommand(input string) bool {
	command, args, _ := strings.Cut(strings.TrimPrefix(input, "/"), " ")
	switch command {
	case "quit", "exit":
		return true
	case CommandHelp:
		c.printf("%s\n", consoleHelp)
	case CommandClear, CommandNew:
		c.Conversation.ClearChat()
	case CommandMode:
		c.Conversation.ToggleMode()
	case CommandMic:
		c.Conversation.ToggleMic()
	case CommandKey:
		c.Conversation.SetCredential(strings.TrimSpace(args))
	default:
		c.printf("%s\n", MessageCommandUnknown)
	}
	return false
}

func (c *ConsoleUsecase) renderer(initial model.ConversationState) func(model.ConversationState) {
	seen := make(map[uuid.UUID]struct{}, len(initial.Messages))
	for _, msg := range initial.Messages {
		seen[msg.ID] = struct{}{}
	}
	responding := initial.IsResponding
	return func(state model.ConversationState) {
		for _, msg := range state.Messages {
			if _, ok := seen[msg.ID]; ok {
				continue
			}
			seen[msg.ID] = struct{}{}
			if msg.Source == model.MessageSourceAssistant {
				c.printMessage(msg)
			}
		}
		if state.IsResponding && !responding {
			c.printf("assistant is typing...\n")
		}
		if !state.IsResponding && responding {
			select {
			case c.idle <- struct{}{}:
			default:
			}
		}
		responding = state.IsResponding
	}
}

func (c *ConsoleUsecase) printMessage(msg model.Message) {
	c.printf("assistant [%s]> %s\n", msg.CreatedAt.Format("15:04"), msg.Text)
}

func (c *ConsoleUsecase) printf(format string, a ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.Out, format, a...)
}
