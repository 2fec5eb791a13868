// Package deepseek adapts DeepSeek's OpenAI-compatible API to the provider
// completion interface via the official OpenAI SDK with a custom base URL.
package deepseek

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/hskaicoach/backend/internal/providers"
)

const defaultBaseURL = "https://api.deepseek.com"

// Options configures the DeepSeek adapter.
type Options struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type Adapter struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("deepseek: api key required")
	}
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = "deepseek-chat"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	client := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")),
	)
	return &Adapter{
		client:    &client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}, nil
}

func (a *Adapter) Name() string {
	return "deepseek"
}

func (a *Adapter) Complete(ctx context.Context, req providers.Request) (string, error) {
	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(a.model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("deepseek %s: %w", a.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("deepseek %s: no choices in response", a.model)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("deepseek %s: empty completion", a.model)
	}
	return content, nil
}
