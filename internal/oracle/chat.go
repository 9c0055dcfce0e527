package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pixil98/go-gridworld/internal/logging"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-3.5-turbo"
	DefaultTimeout  = 5 * time.Second

	maxErrorBody = 4 << 10
)

// ChatOracle generates text through an OpenAI compatible chat completions
// endpoint. Every call is bounded by the configured timeout.
type ChatOracle struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
	timeout  time.Duration
	prompts  *prompts

	describeTemplate string
	riddleTemplate   string
}

func NewChatOracle(apiKey string, opts ...ChatOracleOpt) (*ChatOracle, error) {
	o := &ChatOracle{
		client:           http.DefaultClient,
		endpoint:         DefaultEndpoint,
		apiKey:           apiKey,
		model:            DefaultModel,
		timeout:          DefaultTimeout,
		describeTemplate: DefaultDescribeTemplate,
		riddleTemplate:   DefaultRiddleTemplate,
	}

	for _, opt := range opts {
		opt(o)
	}

	p, err := parsePrompts(o.describeTemplate, o.riddleTemplate)
	if err != nil {
		return nil, err
	}
	o.prompts = p

	return o, nil
}

func (o *ChatOracle) Available() bool {
	return o.apiKey != ""
}

func (o *ChatOracle) Riddle(ctx context.Context, req Request) (Riddle, bool) {
	if !o.Available() {
		return Riddle{}, false
	}

	prompt, err := expand(o.prompts.riddle, req)
	if err != nil {
		logging.GetLogger(ctx).WithError(err).Warn("building riddle prompt")
		return Riddle{}, false
	}

	reply, err := o.complete(ctx, prompt, 200, 0.7)
	if err != nil {
		logging.GetLogger(ctx).WithError(err).Warn("requesting riddle")
		return Riddle{}, false
	}

	r, err := parseRiddle(reply)
	if err != nil {
		logging.GetLogger(ctx).WithError(err).Warn("parsing riddle")
		return Riddle{}, false
	}

	return r, true
}

func (o *ChatOracle) Describe(ctx context.Context, req Request) (string, bool) {
	if !o.Available() {
		return "", false
	}

	prompt, err := expand(o.prompts.describe, req)
	if err != nil {
		logging.GetLogger(ctx).WithError(err).Warn("building description prompt")
		return "", false
	}

	reply, err := o.complete(ctx, prompt, 100, 0.9)
	if err != nil {
		logging.GetLogger(ctx).WithError(err).Warn("requesting description")
		return "", false
	}

	return reply, true
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	N           int           `json:"n"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *ChatOracle) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", o.endpoint, err)
	}
	// Ignoring close error - body is fully consumed or discarded below
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	err = json.NewDecoder(resp.Body).Decode(&out)
	if err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}

	reply := strings.TrimSpace(out.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("response is empty")
	}

	return reply, nil
}
