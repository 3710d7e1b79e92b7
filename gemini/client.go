package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/llmgate/promptimprover/models"
)

// InvalidKeyMarker appears in errors returned for a rejected API key.
const InvalidKeyMarker = "API key not valid"

const jsonMIMEType = "application/json"

type GeminiClient struct {
	clientOptions []option.ClientOption
}

// NewGeminiClient creates a client. Extra options are appended to the API
// key option on every request (endpoint overrides, http clients).
func NewGeminiClient(clientOptions ...option.ClientOption) *GeminiClient {
	return &GeminiClient{
		clientOptions: clientOptions,
	}
}

func (c *GeminiClient) InvalidCredentialMarker() string {
	return InvalidKeyMarker
}

// GenerateStructured calls GenerateContent with a JSON response schema.
func (c *GeminiClient) GenerateStructured(ctx context.Context, apiKey string, req models.StructuredRequest) (*models.StructuredResponse, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.clientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	genModel := client.GenerativeModel(req.Model)
	genModel.SetTemperature(req.Temperature)
	genModel.ResponseMIMEType = jsonMIMEType
	genModel.ResponseSchema = toGeminiSchema(req.Schema)
	if req.SystemPrompt != "" {
		genModel.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	geminiResponse, err := genModel.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, err
	}

	return convertGeminiResponse(req.Model, geminiResponse)
}

func toGeminiSchema(schema models.ResponseSchema) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(schema.Fields))
	for _, field := range schema.Fields {
		properties[field.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: field.Description,
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   schema.FieldNames(),
	}
}

func convertGeminiResponse(model string, geminiResp *genai.GenerateContentResponse) (*models.StructuredResponse, error) {
	if geminiResp == nil || len(geminiResp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	candidate := geminiResp.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}

	response := &models.StructuredResponse{
		Text:         text.String(),
		Model:        model,
		FinishReason: mapFinishReason(candidate.FinishReason),
	}
	if geminiResp.UsageMetadata != nil {
		response.InputTokens = int(geminiResp.UsageMetadata.PromptTokenCount)
		response.OutputTokens = int(geminiResp.UsageMetadata.CandidatesTokenCount)
	}
	return response, nil
}

func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "max_tokens"
	case genai.FinishReasonSafety:
		return "safety"
	case genai.FinishReasonRecitation:
		return "recitation"
	default:
		return "other"
	}
}
