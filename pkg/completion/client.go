// Package completion sends chat histories to a remote, OpenAI-compatible chat
// completion endpoint and returns the assistant's reply.
//
// A call is a single best-effort round trip: no retries, no client-side
// timeout and no streaming.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/utils"
)

const (
	// DefaultEndpoint is the DeepSeek chat completions URL.
	DefaultEndpoint = "https://api.deepseek.com/v1/chat/completions"

	DefaultModel = "deepseek-chat"
	CoderModel   = "deepseek-coder"

	// MaxHistory is the number of most recent turns kept from caller history.
	MaxHistory = 20

	// DefaultSystemPrompt is injected when the history has no system turn.
	DefaultSystemPrompt = "You are a helpful assistant who answers the user's questions clearly and informatively."
)

// BuiltinDefaults returns the sampling parameters used for any field that
// neither the caller nor Config.Defaults supplies.
func BuiltinDefaults() llm.Options {
	return llm.Options{
		Model:            DefaultModel,
		Temperature:      llm.Float(0.7),
		MaxTokens:        llm.Int(2000),
		TopP:             llm.Float(0.95),
		FrequencyPenalty: llm.Float(0),
		PresencePenalty:  llm.Float(0),
	}
}

// SystemMessage is the default system turn.
func SystemMessage() llm.Message {
	return llm.NewMessage(llm.RoleSystem, DefaultSystemPrompt)
}

// Config is the completion client configuration.
type Config struct {
	// APIKey is sent as a bearer token. Empty fails every call fast.
	APIKey string

	// Endpoint is the full chat completions URL. Defaults to DefaultEndpoint.
	Endpoint string

	// Defaults override BuiltinDefaults field by field.
	Defaults llm.Options

	// HTTPClient is used for the round trip. Defaults to a client without a
	// timeout; cancellation is left to the caller's context.
	HTTPClient *http.Client
}

// Client is the request composer for the remote completion service.
type Client struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

// New creates a new Client. The credential is taken from config only.
func New(config Config, logger *zap.Logger) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		logger:     logger,
		httpClient: httpClient,
	}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// BuildRequest composes the outbound request: the last MaxHistory turns, a
// default system turn when none is present, and options merged per field over
// the configured and built-in defaults.
func (c *Client) BuildRequest(history []llm.Message, opts llm.Options) llm.ChatRequest {
	recent := history
	if len(recent) > MaxHistory {
		recent = recent[len(recent)-MaxHistory:]
	}

	msgs := make([]llm.Message, 0, len(recent)+1)
	if !llm.HasSystem(recent) {
		msgs = append(msgs, SystemMessage())
	}
	msgs = append(msgs, recent...)

	merged := opts.Merge(c.config.Defaults).Merge(BuiltinDefaults())
	return llm.NewChatRequest(msgs, merged)
}

// SendCompletion posts history to the completion service and returns the
// content of the first choice.
func (c *Client) SendCompletion(ctx context.Context, history []llm.Message, opts llm.Options) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	req := c.BuildRequest(history, opts)
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("sending completion request",
		zap.String("endpoint", c.config.Endpoint),
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
		zap.Int("body_size", len(reqBody)),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("User-Agent", utils.UserAgent())

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("received completion response",
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", newAPIError(httpResp.StatusCode, body)
	}

	return parseContent(body)
}

// newAPIError prefers the service's error.message and falls back to the
// status reason phrase.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("status %d", status)
	}

	var errResp llm.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if msg := strings.TrimSpace(errResp.Error.Message); msg != "" {
			apiErr.Message = msg
		}
	}

	return apiErr
}

func parseContent(body []byte) (string, error) {
	var resp llm.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return "", fmt.Errorf("%w: first choice has no message content", ErrMalformedResponse)
	}

	return *msg.Content, nil
}
