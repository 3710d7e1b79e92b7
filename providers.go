package main

import (
	"fmt"

	"google.golang.org/api/option"

	"github.com/llmgate/promptimprover/claude"
	"github.com/llmgate/promptimprover/gemini"
	"github.com/llmgate/promptimprover/improver"
	"github.com/llmgate/promptimprover/internal/config"
	"github.com/llmgate/promptimprover/mockllm"
	"github.com/llmgate/promptimprover/openai"
)

// newGenerator builds the client for the configured provider.
func newGenerator(llmConfig config.LLMConfig) (improver.Generator, error) {
	switch llmConfig.Provider {
	case "gemini":
		var opts []option.ClientOption
		if llmConfig.BaseUrl != "" {
			opts = append(opts, option.WithEndpoint(llmConfig.BaseUrl))
		}
		return gemini.NewGeminiClient(opts...), nil
	case "openai":
		return openai.NewOpenAIClient(llmConfig.BaseUrl), nil
	case "claude":
		return claude.NewClaudeClient(llmConfig.BaseUrl), nil
	case "mock":
		return mockllm.NewMockLLMClient(llmConfig.MockFailureRate), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", llmConfig.Provider)
	}
}

func newImproverOptions(llmConfig config.LLMConfig, observer improver.Observer) improver.Options {
	return improver.Options{
		Provider:    llmConfig.Provider,
		Model:       llmConfig.Model,
		Temperature: llmConfig.Temperature,
		Timeout:     llmConfig.Timeout,
		Logger:      logger,
		Observer:    observer,
	}
}
