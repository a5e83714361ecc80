package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iamvkosarev/health-assistant-bot/config"
	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	openai_tools "github.com/iamvkosarev/health-assistant-bot/pkg/openai-tools"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const SystemInstruction = "You are a helpful healthcare assistant. Provide general health information and guidance only. " +
	"Do not diagnose conditions or prescribe treatment. Always recommend consulting a qualified healthcare " +
	"professional for medical concerns, and advise contacting emergency services for urgent symptoms. " +
	"Keep answers clear and concise."

type LocalResolver interface {
	ResolveLocally(input string) string
}

type RemoteResponderDeps struct {
	Local      LocalResolver
	HTTPClient *http.Client
}

type RemoteResponderUsecase struct {
	RemoteResponderDeps
	cfg        config.OpenAI
	notices    noticeFactory
	limiter    *rate.Limiter
	httpClient *http.Client
}

func NewRemoteResponderUsecase(
	deps RemoteResponderDeps,
	cfg config.OpenAI,
	conversationCfg config.Conversation,
) *RemoteResponderUsecase {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &RemoteResponderUsecase{
		RemoteResponderDeps: deps,
		cfg:                 cfg,
		notices:             newNoticeFactory(conversationCfg),
		limiter:             rate.NewLimiter(limit, 1),
		httpClient:          withErrorPayloadDetection(deps.HTTPClient),
	}
}

// ResolveRemotely asks the completion endpoint once. Every failure is turned
// into a Degraded outcome; it never returns an error to the caller.
func (r *RemoteResponderUsecase) ResolveRemotely(ctx context.Context, input, credential string) model.ResponseOutcome {
	if strings.TrimSpace(credential) == "" {
		return model.Degraded(
			r.notices.text(TextMissingCredentialReply),
			r.notices.missingCredential(),
			model.ErrMissingCredential,
		)
	}

	answer, err := r.complete(ctx, input, credential)
	if err == nil {
		return model.Answered(answer)
	}

	fallback := r.Local.ResolveLocally(input)
	var apiErr *remoteAPIError
	if errors.As(err, &apiErr) {
		log.Warn().Err(err).Int("status", apiErr.status).Msg("completion endpoint returned an error")
		return model.Degraded(fallback, r.notices.apiError(apiErr.message), err)
	}
	log.Warn().Err(err).Msg("completion endpoint unreachable")
	return model.Degraded(fallback, r.notices.transportError(), err)
}

func (r *RemoteResponderUsecase) complete(ctx context.Context, input, credential string) (string, error) {
	if r.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.RequestTimeout)
		defer cancel()
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %w", model.ErrTransport, err)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: SystemInstruction,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: input,
		},
	}
	if r.cfg.CountPromptTokens {
		if tokenCount, err := openai_tools.CountToken(messages, r.cfg.OpenAIModel); err != nil {
			log.Debug().Err(err).Msg("failed to count prompt tokens")
		} else {
			log.Debug().Int("prompt_tokens", tokenCount).Msg("prompt prepared")
		}
	}

	clientConfig := openai.DefaultConfig(credential)
	clientConfig.BaseURL = r.cfg.OpenAIBaseURL
	clientConfig.HTTPClient = r.httpClient
	c := openai.NewClientWithConfig(clientConfig)

	req := openai.ChatCompletionRequest{
		Model:       r.cfg.OpenAIModel,
		Temperature: r.cfg.ModelTemperature,
		MaxTokens:   r.cfg.MaxTokens,
		Messages:    messages,
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyCompletionError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &remoteAPIError{
			status:  http.StatusOK,
			message: "empty completion",
			err:     errors.New("response has no choices"),
		}
	}
	return resp.Choices[0].Message.Content, nil
}

// remoteAPIError is a failure reported by the endpoint itself, as opposed to
// no response at all.
type remoteAPIError struct {
	status  int
	message string
	err     error
}

func (e *remoteAPIError) Error() string {
	return fmt.Sprintf("%s: %s", model.ErrRemoteAPI, e.message)
}

func (e *remoteAPIError) Unwrap() []error {
	return []error{model.ErrRemoteAPI, e.err}
}

func classifyCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.HTTPStatusCode)
		}
		return &remoteAPIError{status: apiErr.HTTPStatusCode, message: message, err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &remoteAPIError{
			status:  reqErr.HTTPStatusCode,
			message: http.StatusText(reqErr.HTTPStatusCode),
			err:     err,
		}
	}
	return fmt.Errorf("%w: %w", model.ErrTransport, err)
}

// withErrorPayloadDetection copies client and wraps its transport so that a
// 2xx response whose body carries an "error" object reaches go-openai as a
// failure, and its error.message is not lost.
func withErrorPayloadDetection(client *http.Client) *http.Client {
	wrapped := &http.Client{}
	if client != nil {
		*wrapped = *client
	}
	base := wrapped.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = errorPayloadTransport{base: base}
	return wrapped
}

type errorPayloadTransport struct {
	base http.RoundTripper
}

func (t errorPayloadTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && bytes.HasPrefix(bytes.TrimSpace(payload.Error), []byte("{")) {
		resp.StatusCode = http.StatusBadGateway
		resp.Status = fmt.Sprintf("%d %s", http.StatusBadGateway, http.StatusText(http.StatusBadGateway))
	}
	return resp, nil
}
