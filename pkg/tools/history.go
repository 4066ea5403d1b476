package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/history"
)

var emptySchema = json.RawMessage(`{"type":"object","properties":{}}`)

// HistoryFetchTool returns the stored conversation.
type HistoryFetchTool struct {
	controller *history.Controller
}

// NewHistoryFetchTool creates a new HistoryFetchTool
func NewHistoryFetchTool(c *history.Controller) *HistoryFetchTool {
	return &HistoryFetchTool{controller: c}
}

func (t *HistoryFetchTool) Name() string { return "history_fetch" }

func (t *HistoryFetchTool) Description() string {
	return "Returns the user's conversation history as a JSON array of {role, text, created_at}."
}

func (t *HistoryFetchTool) Schema() json.RawMessage { return emptySchema }

func (t *HistoryFetchTool) Run(ctx context.Context, _ string) (string, error) {
	if err := t.controller.Fetch(ctx); err != nil {
		return "", errors.New(api.Message(err, history.FallbackError))
	}
	b, err := json.Marshal(t.controller.Log().Messages())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// HistoryClearTool clears the conversation shown in this session only.
type HistoryClearTool struct {
	controller *history.Controller
}

// NewHistoryClearTool creates a new HistoryClearTool
func NewHistoryClearTool(c *history.Controller) *HistoryClearTool {
	return &HistoryClearTool{controller: c}
}

func (t *HistoryClearTool) Name() string { return "history_clear" }

func (t *HistoryClearTool) Description() string {
	return "Clears the locally displayed conversation. Stored history is kept and returns on the next fetch."
}

func (t *HistoryClearTool) Schema() json.RawMessage { return emptySchema }

func (t *HistoryClearTool) Run(_ context.Context, _ string) (string, error) {
	t.controller.ClearLocal()
	return "Local history cleared.", nil
}
