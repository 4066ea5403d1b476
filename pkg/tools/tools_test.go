package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/memoria/internal/config"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/dashboard"
	"github.com/comigor/memoria/internal/history"
)

func newManager(t *testing.T, h http.HandlerFunc) (*ToolManager, *dashboard.Dashboard) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	d := dashboard.New(config.Config{API: config.APIConfig{BaseURL: srv.URL}}, credential.NewMemoryStore("tok"))
	m := NewToolManager()
	Register(m, d)
	return m, d
}

func run(t *testing.T, m *ToolManager, name, args string) (string, error) {
	t.Helper()
	tool, err := m.GetTool(name)
	require.NoError(t, err)
	require.True(t, json.Valid(tool.Schema()))
	return tool.Run(context.Background(), args)
}

func TestManager_ListSorted(t *testing.T) {
	m, _ := newManager(t, func(http.ResponseWriter, *http.Request) {})
	var names []string
	for _, tool := range m.List() {
		names = append(names, tool.Name())
	}
	require.Equal(t, []string{"chat_send", "history_clear", "history_fetch", "upload_file"}, names)

	_, err := m.GetTool("nope")
	require.Error(t, err)
}

func TestChatTool(t *testing.T) {
	var topK int
	m, d := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			TopK int `json:"top_k"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		topK = in.TopK
		w.Write([]byte(`{"reply":"answer"}`))
	})

	out, err := run(t, m, "chat_send", `{"message":"q","top_k":2}`)
	require.NoError(t, err)
	require.Equal(t, "answer", out)
	require.Equal(t, 2, topK)
	require.Equal(t, 2, d.History.Log().Len())

	_, err = run(t, m, "chat_send", `{}`)
	require.Error(t, err)
}

func TestUploadTool(t *testing.T) {
	m, _ := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ingested_chunks":5,"message":"done"}`))
	})
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.txt")
	bad := filepath.Join(dir, "notes.exe")
	require.NoError(t, os.WriteFile(good, []byte("hello world"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("MZ"), 0o600))

	out, err := run(t, m, "upload_file", `{"path":"`+good+`"}`)
	require.NoError(t, err)
	require.Equal(t, "Successfully processed 5 text chunks from notes.txt. done", out)

	_, err = run(t, m, "upload_file", `{"path":"`+bad+`"}`)
	require.EqualError(t, err, "Please select a PDF, DOCX, or TXT file")
}

func TestHistoryTools(t *testing.T) {
	m, d := newManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"history":[{"role":"user","text":"hi","created_at":"2025-01-01T00:00:00"}]}`))
	})

	out, err := run(t, m, "history_fetch", `{}`)
	require.NoError(t, err)
	var msgs []history.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 1)
	require.Equal(t, "hi", msgs[0].Text)

	_, err = run(t, m, "history_clear", `{}`)
	require.NoError(t, err)
	require.Equal(t, 0, d.History.Log().Len())
}
