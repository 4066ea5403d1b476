package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
api:
  base_url: https://assistant.example.com
  timeout: 5s
chat:
  top_k: 8
credentials:
  path: /tmp/creds.db
log:
  level: debug
`

// TestLoad_File verifies that Load correctly unmarshals a config file named by CONFIG_PATH.
func TestLoad_File(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString(sampleConfig)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://assistant.example.com", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, 8, cfg.Chat.TopK)
	require.Equal(t, "/tmp/creds.db", cfg.Credentials.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:5005", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 4, cfg.Chat.TopK)
	require.Equal(t, "memoria.db", cfg.Credentials.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("MEMORIA_API_BASE_URL", "http://backend:9000")
	t.Setenv("MEMORIA_CHAT_TOP_K", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	require.Equal(t, 2, cfg.Chat.TopK)
}
