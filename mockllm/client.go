package mockllm

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/llmgate/promptimprover/models"
)

// InvalidKeyMarker is returned when the mock is called with this key, so
// the invalid credential path can be exercised offline.
const InvalidKeyMarker = "mock: API key not valid"

const RejectedKey = "invalid"

var errMockFailure = errors.New("mock failure: service unavailable")

// MockLLMClient answers without any network access. The first schema field
// receives the rewritten prompt and the remaining fields an explanation.
type MockLLMClient struct {
	failureRate float64
	mu          sync.Mutex
	rand        *rand.Rand
}

func NewMockLLMClient(failureRate float64) *MockLLMClient {
	return &MockLLMClient{
		failureRate: failureRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *MockLLMClient) InvalidCredentialMarker() string {
	return InvalidKeyMarker
}

func (c *MockLLMClient) GenerateStructured(ctx context.Context, apiKey string, req models.StructuredRequest) (*models.StructuredResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if apiKey == RejectedKey {
		return nil, errors.New(InvalidKeyMarker)
	}
	if c.shouldFail() {
		return nil, errMockFailure
	}

	userPrompt := extractUserPrompt(req.Prompt)
	payload := make(map[string]string, len(req.Schema.Fields))
	for i, field := range req.Schema.Fields {
		if i == 0 {
			payload[field.Name] = improve(userPrompt)
		} else {
			payload[field.Name] = "Added a role, made the expected output explicit and asked for stated assumptions."
		}
	}

	text, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &models.StructuredResponse{
		Text:         string(text),
		Model:        "mock-model",
		InputTokens:  len(strings.Fields(req.SystemPrompt + " " + req.Prompt)),
		OutputTokens: len(strings.Fields(string(text))),
		FinishReason: "stop",
	}, nil
}

func (c *MockLLMClient) shouldFail() bool {
	if c.failureRate <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rand.Float64() < c.failureRate
}

// extractUserPrompt returns the text between the first pair of triple
// quotes, or the whole prompt when there is none.
func extractUserPrompt(prompt string) string {
	const fence = `"""`
	start := strings.Index(prompt, fence)
	if start < 0 {
		return strings.TrimSpace(prompt)
	}
	rest := prompt[start+len(fence):]
	end := strings.LastIndex(rest, fence)
	if end < 0 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

func improve(prompt string) string {
	return "You are an expert assistant. " + prompt +
		"\n\nDescribe the expected output format, keep the answer focused, and state any assumptions you make."
}
