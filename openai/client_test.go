package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptimprover/models"
)

var testRequest = models.StructuredRequest{
	Model:        "gpt-4o-mini",
	Temperature:  0.5,
	SystemPrompt: "be helpful",
	Prompt:       "improve: write a poem",
	Schema: models.ResponseSchema{
		Name: "improved_prompt",
		Fields: []models.SchemaField{
			{Name: "improvedPrompt", Description: "The rewritten prompt."},
			{Name: "explanation", Description: "What changed."},
		},
	},
}

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string `json:"name"`
			Strict bool   `json:"strict"`
			Schema struct {
				Type                 string                       `json:"type"`
				Required             []string                     `json:"required"`
				AdditionalProperties bool                         `json:"additionalProperties"`
				Properties           map[string]map[string]string `json:"properties"`
			} `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestGenerateStructured(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini-2024-07-18",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"improvedPrompt\":\"p\",\"explanation\":\"e\"}"}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL + "/v1")
	response, err := client.GenerateStructured(context.Background(), "sk-test", testRequest)
	require.NoError(t, err)

	assert.Equal(t, `{"improvedPrompt":"p","explanation":"e"}`, response.Text)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", response.Model)
	assert.Equal(t, 40, response.InputTokens)
	assert.Equal(t, 12, response.OutputTokens)
	assert.Equal(t, "stop", response.FinishReason)

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, float32(0.5), captured.Temperature)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "improve: write a poem", captured.Messages[1].Content)
	assert.Equal(t, "json_schema", captured.ResponseFormat.Type)
	assert.Equal(t, "improved_prompt", captured.ResponseFormat.JSONSchema.Name)
	assert.True(t, captured.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, "object", captured.ResponseFormat.JSONSchema.Schema.Type)
	assert.Equal(t, []string{"improvedPrompt", "explanation"}, captured.ResponseFormat.JSONSchema.Schema.Required)
	assert.False(t, captured.ResponseFormat.JSONSchema.Schema.AdditionalProperties)
	assert.Equal(t, "string", captured.ResponseFormat.JSONSchema.Schema.Properties["explanation"]["type"])
}

func TestGenerateStructured_InvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided: sk-bad.", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL + "/v1")
	_, err := client.GenerateStructured(context.Background(), "sk-bad", testRequest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), client.InvalidCredentialMarker())
}

func TestGenerateStructured_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	}))
	defer server.Close()

	_, err := NewOpenAIClient(server.URL+"/v1").GenerateStructured(context.Background(), "sk-test", testRequest)
	assert.Error(t, err)
}
