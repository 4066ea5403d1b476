package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/upload"
)

// UploadTool ingests a local document into the user's memory.
type UploadTool struct {
	controller *upload.Controller
}

// NewUploadTool creates a new UploadTool
func NewUploadTool(c *upload.Controller) *UploadTool {
	return &UploadTool{controller: c}
}

func (t *UploadTool) Name() string { return "upload_file" }

func (t *UploadTool) Description() string {
	return "Uploads a local PDF, DOCX or TXT file so its contents can be used in chat."
}

func (t *UploadTool) Schema() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{` +
		`"path":{"type":"string","description":"Path of the file to upload"}` +
		`},"required":["path"]}`)
}

func (t *UploadTool) Run(ctx context.Context, args string) (string, error) {
	var in struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return "", err
	}
	if in.Path == "" {
		return "", errors.New("path is required")
	}

	f, err := os.Open(in.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	res, err := t.controller.SelectFile(ctx, &upload.File{Name: filepath.Base(in.Path), Data: f})
	if err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			return "", errors.New(upload.InvalidTypeMessage)
		}
		return "", errors.New(api.Message(err, upload.FallbackError))
	}
	out := fmt.Sprintf("Successfully processed %d text chunks from %s.", res.IngestedChunks, filepath.Base(in.Path))
	if res.Message != "" {
		out += " " + res.Message
	}
	return out, nil
}
