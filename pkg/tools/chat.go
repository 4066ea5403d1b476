package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/chat"
)

// ChatTool asks the assistant a question about the user's documents.
type ChatTool struct {
	controller *chat.Controller
}

// NewChatTool creates a new ChatTool
func NewChatTool(c *chat.Controller) *ChatTool {
	return &ChatTool{controller: c}
}

func (t *ChatTool) Name() string { return "chat_send" }

func (t *ChatTool) Description() string {
	return "Sends a message to the memory assistant, which answers using the user's uploaded documents."
}

func (t *ChatTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{` +
		`"message":{"type":"string","description":"Question or message for the assistant"},` +
		`"top_k":{"type":"integer","description":"How many document chunks to retrieve"}` +
		`},"required":["message"]}`)
}

func (t *ChatTool) Run(ctx context.Context, args string) (string, error) {
	var in struct {
		Message string `json:"message"`
		TopK    *int   `json:"top_k"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Message == "" {
		return "", errors.New("message is required")
	}

	var opts []chat.Option
	if in.TopK != nil {
		opts = append(opts, chat.WithTopK(*in.TopK))
	}
	reply, err := t.controller.Send(ctx, in.Message, opts...)
	if err != nil {
		return "", errors.New(api.Message(err, chat.FallbackError))
	}
	return reply.Reply, nil
}
