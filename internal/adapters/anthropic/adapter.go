// Package anthropic adapts the official Anthropic SDK to the provider
// completion interface. One adapter instance is bound to one model, so the
// primary and the fast fallback run as separate chain candidates.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hskaicoach/backend/internal/providers"
)

// Options configures the Anthropic adapter.
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int
	// Label names the adapter in chain logs and metrics, e.g. "claude-haiku".
	Label string
}

type Adapter struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	label     string
}

func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("anthropic: api key required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("anthropic: model required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	if opts.Label == "" {
		opts.Label = "claude"
	}

	client := anthropic.NewClient(option.WithAPIKey(opts.APIKey))
	return &Adapter{
		client:    &client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		label:     opts.Label,
	}, nil
}

func (a *Adapter) Name() string {
	return a.label
}

func (a *Adapter) Complete(ctx context.Context, req providers.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(req.User),
				},
			},
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic %s: %w", a.model, err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic %s: no text content in response", a.model)
}
