// Package improver runs the improve cycle: check the credential and the
// prompt, send one structured request, and parse the two-field answer.
package improver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/llmgate/promptimprover/keystore"
	"github.com/llmgate/promptimprover/models"
	"github.com/llmgate/promptimprover/utils"
)

// Generator sends one structured-output request to a model provider.
type Generator interface {
	GenerateStructured(ctx context.Context, apiKey string, req models.StructuredRequest) (*models.StructuredResponse, error)
	// InvalidCredentialMarker is the text the provider puts in errors caused
	// by a bad API key.
	InvalidCredentialMarker() string
}

type CredentialSource interface {
	Get(ctx context.Context) (string, error)
}

type Observer interface {
	ObserveImprove(provider, outcome string, duration time.Duration, inputTokens, outputTokens int)
}

type Options struct {
	Provider    string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
	Observer    Observer
}

type Result struct {
	ImprovedPrompt string
	Explanation    string
	Model          string
	InputTokens    int
	OutputTokens   int
}

type Service struct {
	generator   Generator
	credentials CredentialSource
	options     Options
	logger      *zap.Logger
	inFlight    atomic.Bool
}

func NewService(generator Generator, credentials CredentialSource, options Options) *Service {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator:   generator,
		credentials: credentials,
		options:     options,
		logger:      logger.Named("improver"),
	}
}

// Improve rewrites prompt. At most one call is in flight at a time; a
// concurrent call fails with ErrBusy without touching the provider.
func (s *Service) Improve(ctx context.Context, prompt string) (*Result, error) {
	start := time.Now()
	result, err := s.improve(ctx, prompt)
	duration := time.Since(start)
	kind := KindOf(err)

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("provider", s.options.Provider),
		zap.String("model", s.options.Model),
		zap.Int("promptChars", len(prompt)),
		zap.Duration("latency", duration),
	}
	var inputTokens, outputTokens int
	if result != nil {
		inputTokens, outputTokens = result.InputTokens, result.OutputTokens
		fields = append(fields, zap.Int("inputTokens", inputTokens), zap.Int("outputTokens", outputTokens))
	}
	switch kind {
	case KindSuccess:
		s.logger.Info("prompt improved", fields...)
	case KindGeneric, KindMalformedResponse:
		s.logger.Error("improve failed", append(fields, zap.Error(err))...)
	default:
		s.logger.Warn("improve rejected", append(fields, zap.Error(err))...)
	}

	if s.options.Observer != nil {
		s.options.Observer.ObserveImprove(s.options.Provider, string(kind), duration, inputTokens, outputTokens)
	}
	return result, err
}

func (s *Service) improve(ctx context.Context, prompt string) (*Result, error) {
	apiKey, err := s.credentials.Get(ctx)
	if errors.Is(err, keystore.ErrNotConfigured) {
		return nil, ErrMissingCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read api key: %w", err)
	}

	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.inFlight.Store(false)

	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	response, err := s.generator.GenerateStructured(ctx, apiKey, models.StructuredRequest{
		Model:        s.options.Model,
		Temperature:  s.options.Temperature,
		SystemPrompt: systemPrompt,
		Prompt:       RenderPrompt(prompt),
		Schema:       ResponseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", s.options.Provider, classifyProviderError(err, s.generator.InvalidCredentialMarker()))
	}

	result, err := parseResult(response.Text)
	if err != nil {
		return nil, err
	}
	result.Model = response.Model
	result.InputTokens = response.InputTokens
	result.OutputTokens = response.OutputTokens
	return result, nil
}

type improvedPayload struct {
	ImprovedPrompt *string `json:"improvedPrompt"`
	Explanation    *string `json:"explanation"`
}

func parseResult(text string) (*Result, error) {
	var payload improvedPayload
	if err := json.Unmarshal([]byte(utils.CleanJSONResponse(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if payload.ImprovedPrompt == nil || strings.TrimSpace(*payload.ImprovedPrompt) == "" {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, FieldImprovedPrompt)
	}
	if payload.Explanation == nil || strings.TrimSpace(*payload.Explanation) == "" {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, FieldExplanation)
	}

	return &Result{
		ImprovedPrompt: *payload.ImprovedPrompt,
		Explanation:    *payload.Explanation,
	}, nil
}
