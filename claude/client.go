package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/llmgate/promptimprover/models"
)

// InvalidKeyMarker appears in errors returned for a rejected API key.
const InvalidKeyMarker = "invalid x-api-key"

const defaultMaxTokens = 2048

type ClaudeClient struct {
	baseURL   string
	maxTokens int
}

// NewClaudeClient creates a client. An empty baseURL targets api.anthropic.com.
func NewClaudeClient(baseURL string) *ClaudeClient {
	return &ClaudeClient{
		baseURL:   baseURL,
		maxTokens: defaultMaxTokens,
	}
}

func (c *ClaudeClient) InvalidCredentialMarker() string {
	return InvalidKeyMarker
}

// GenerateStructured asks for a JSON object through the system prompt; the
// Messages API has no response schema parameter.
func (c *ClaudeClient) GenerateStructured(ctx context.Context, apiKey string, req models.StructuredRequest) (*models.StructuredResponse, error) {
	var opts []anthropic.ClientOption
	if c.baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(c.baseURL))
	}
	client := anthropic.NewClient(apiKey, opts...)

	temperature := req.Temperature
	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       req.Model,
		System:      getSystemPrompt(req),
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(req.Prompt)},
		MaxTokens:   c.maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	var text strings.Builder
	for _, content := range resp.Content {
		if content.Text != nil {
			text.WriteString(*content.Text)
		}
	}

	return &models.StructuredResponse{
		Text:         text.String(),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		FinishReason: string(resp.StopReason),
	}, nil
}

func getSystemPrompt(req models.StructuredRequest) string {
	var sb strings.Builder
	if req.SystemPrompt != "" {
		sb.WriteString(req.SystemPrompt)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Reply with a single JSON object and nothing else. It must have these string fields, all required:\n")
	for _, field := range req.Schema.Fields {
		fmt.Fprintf(&sb, "- %q: %s\n", field.Name, field.Description)
	}
	return sb.String()
}
