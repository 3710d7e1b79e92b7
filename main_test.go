package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llmgate/promptimprover/claude"
	"github.com/llmgate/promptimprover/gemini"
	"github.com/llmgate/promptimprover/internal/config"
	"github.com/llmgate/promptimprover/mockllm"
	"github.com/llmgate/promptimprover/models"
	"github.com/llmgate/promptimprover/openai"
)

func setupCLI(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger = zap.NewNop()
	appConfig = &config.Config{
		LLM: config.LLMConfig{
			Provider: "mock",
			Model:    "mock-model",
			Timeout:  time.Second,
		},
		Credentials: config.CredentialsConfig{
			Backend: "file",
			Path:    filepath.Join(t.TempDir(), "credentials.yaml"),
		},
	}
	t.Cleanup(func() {
		appConfig = nil
		improveApiKey = ""
		improveJSON = false
	})
	return &bytes.Buffer{}
}

func newTestCmd(out *bytes.Buffer, stdin string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	return cmd
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		provider string
		check    func(t *testing.T, v any)
	}{
		{"gemini", func(t *testing.T, v any) { assert.IsType(t, &gemini.GeminiClient{}, v) }},
		{"openai", func(t *testing.T, v any) { assert.IsType(t, &openai.OpenAIClient{}, v) }},
		{"claude", func(t *testing.T, v any) { assert.IsType(t, &claude.ClaudeClient{}, v) }},
		{"mock", func(t *testing.T, v any) { assert.IsType(t, &mockllm.MockLLMClient{}, v) }},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			generator, err := newGenerator(config.LLMConfig{Provider: tt.provider, BaseUrl: "http://localhost:1"})
			require.NoError(t, err)
			tt.check(t, generator)
		})
	}

	_, err := newGenerator(config.LLMConfig{Provider: "llama"})
	assert.Error(t, err)
}

func TestKeyCommands(t *testing.T) {
	out := setupCLI(t)

	require.NoError(t, runKeyStatus(newTestCmd(out, ""), nil))
	assert.Contains(t, out.String(), "not configured")

	out.Reset()
	require.NoError(t, runKeySet(newTestCmd(out, "AIzaSyD-0123456789abcd\n"), nil))
	assert.Contains(t, out.String(), "AIza...abcd")

	out.Reset()
	require.NoError(t, runKeyStatus(newTestCmd(out, ""), nil))
	assert.Contains(t, out.String(), "AIza...abcd (file backend)")

	out.Reset()
	require.NoError(t, runKeyClear(newTestCmd(out, ""), nil))
	require.NoError(t, runKeyStatus(newTestCmd(out, ""), nil))
	assert.Contains(t, out.String(), "not configured")

	assert.Error(t, runKeySet(newTestCmd(out, ""), []string{"  "}))
}

func TestImproveCommand(t *testing.T) {
	out := setupCLI(t)
	improveApiKey = "AIza-valid"

	require.NoError(t, runImprove(newTestCmd(out, ""), []string{"write", "a", "poem"}))
	assert.Contains(t, out.String(), "Improved prompt:")
	assert.Contains(t, out.String(), "write a poem")
	assert.Contains(t, out.String(), "Explanation:")
}

func TestImproveCommand_Stdin(t *testing.T) {
	out := setupCLI(t)
	improveApiKey = "AIza-valid"
	improveJSON = true

	require.NoError(t, runImprove(newTestCmd(out, "summarize this article"), nil))

	var outcome models.ImprovePromptResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &outcome))
	assert.Equal(t, "success", outcome.Kind)
	assert.Contains(t, outcome.ImprovedPrompt, "summarize this article")
}

func TestImproveCommand_Failures(t *testing.T) {
	out := setupCLI(t)

	err := runImprove(newTestCmd(out, ""), []string{"write a poem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key set")

	improveApiKey = mockllm.RejectedKey
	err = runImprove(newTestCmd(out, ""), []string{"write a poem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")

	improveApiKey = "AIza-valid"
	err = runImprove(newTestCmd(out, ""), []string{"   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enter a prompt")

	// an explicit empty argument must not fall back to stdin
	err = runImprove(newTestCmd(out, "from stdin"), []string{""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enter a prompt")
}
