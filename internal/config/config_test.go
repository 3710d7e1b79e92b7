package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "file", cfg.Credentials.Backend)
	assert.Equal(t, 30*time.Second, cfg.Credentials.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	content := `
server:
  port: 9090
  allowedOrigins: ["http://localhost:3000"]
llm:
  provider: openai
  model: gpt-4o-mini
  timeout: 5s
credentials:
  backend: memory
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfig("staging")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "memory", cfg.Credentials.Backend)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "llama"}},
		{name: "unknown backend", env: map[string]string{"CREDENTIALS_BACKEND": "s3"}},
		{name: "gcs without bucket", env: map[string]string{"CREDENTIALS_BACKEND": "gcs"}},
		{name: "zero push interval", env: map[string]string{"GOOGLESERVICE_PROJECTID": "p", "GOOGLESERVICE_PUSHINTERVAL": "0s"}},
		{name: "negative push interval", env: map[string]string{"GOOGLESERVICE_PROJECTID": "p", "GOOGLESERVICE_PUSHINTERVAL": "-1m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("HOME", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("missing")
			assert.Error(t, err)
		})
	}
}
