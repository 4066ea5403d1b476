package tools

import (
	"context"
	"encoding/json"
)

// Tool is the interface for all tools
type Tool interface {
	Name() string
	Description() string
	// Schema is the JSON schema of the arguments Run accepts.
	Schema() json.RawMessage
	// Run executes the tool with JSON-encoded arguments.
	Run(ctx context.Context, args string) (string, error)
}
