// Package bedrock adapts Amazon Bedrock (Claude via the anthropic_messages
// payload) to the provider completion interface. It serves as the region
// fallback when the direct Anthropic and DeepSeek APIs are unavailable.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/hskaicoach/backend/internal/providers"
)

const anthropicVersion = "bedrock-2023-05-31"

// Options controls how the Bedrock adapter is initialised.
type Options struct {
	Region          string
	ModelID         string
	AccessKeyID     string
	SecretAccessKey string
	MaxTokens       int
}

type Adapter struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
}

func New(ctx context.Context, opts Options) (*Adapter, error) {
	if opts.Region == "" {
		return nil, errors.New("bedrock: region required")
	}
	if opts.ModelID == "" {
		return nil, errors.New("bedrock: model id required")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		staticProvider := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(staticProvider))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = opts.Region
	}

	return &Adapter{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		modelID:   opts.ModelID,
		maxTokens: opts.MaxTokens,
	}, nil
}

func (a *Adapter) Name() string {
	return "bedrock"
}

func (a *Adapter) Complete(ctx context.Context, req providers.Request) (string, error) {
	maxTokens := a.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		System:           req.System,
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: []anthropicContent{{Type: "text", Text: req.User}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock: marshal request: %w", err)
	}

	resp, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock %s: %w", a.modelID, err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fmt.Errorf("bedrock: decode response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("bedrock %s: no text content in response", a.modelID)
}

// anthropicRequest models the payload expected by Claude on Bedrock.
type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	MaxTokens        int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}
