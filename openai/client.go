package openai

import (
	"context"
	"fmt"

	openaigo "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/llmgate/promptimprover/models"
)

// InvalidKeyMarker appears in errors returned for a rejected API key.
const InvalidKeyMarker = "Incorrect API key provided"

type OpenAIClient struct {
	baseURL string
}

// NewOpenAIClient creates a client. An empty baseURL targets api.openai.com.
func NewOpenAIClient(baseURL string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
	}
}

func (c *OpenAIClient) InvalidCredentialMarker() string {
	return InvalidKeyMarker
}

// GenerateStructured calls the Chat Completions API with a strict JSON schema
// response format.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, apiKey string, req models.StructuredRequest) (*models.StructuredResponse, error) {
	clientConfig := openaigo.DefaultConfig(apiKey)
	if c.baseURL != "" {
		clientConfig.BaseURL = c.baseURL
	}
	client := openaigo.NewClientWithConfig(clientConfig)

	response, err := client.CreateChatCompletion(ctx, toChatCompletionRequest(req))
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &models.StructuredResponse{
		Text:         response.Choices[0].Message.Content,
		Model:        response.Model,
		InputTokens:  response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
		FinishReason: string(response.Choices[0].FinishReason),
	}, nil
}

func toChatCompletionRequest(req models.StructuredRequest) openaigo.ChatCompletionRequest {
	messages := make([]openaigo.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openaigo.ChatCompletionMessage{
		Role:    openaigo.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	return openaigo.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaigo.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: toJSONSchema(req.Schema),
				Strict: true,
			},
		},
	}
}

func toJSONSchema(schema models.ResponseSchema) *jsonschema.Definition {
	properties := make(map[string]jsonschema.Definition, len(schema.Fields))
	for _, field := range schema.Fields {
		properties[field.Name] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: field.Description,
		}
	}
	return &jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           properties,
		Required:             schema.FieldNames(),
		AdditionalProperties: false,
	}
}
