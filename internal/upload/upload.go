// Package upload validates documents and drives their ingestion upload.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/qmuntal/stateless"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/logger"
	"github.com/comigor/memoria/internal/viewstate"
)

const (
	// Path is the backend ingestion endpoint.
	Path = "/ingest/upload"
	// FormField is the multipart field carrying the file.
	FormField = "file"

	InvalidTypeMessage = "Please select a PDF, DOCX, or TXT file"
	FallbackError      = "Upload failed. Please try again."
)

// AllowedExtensions lists accepted suffixes, lowercase with the leading dot.
var AllowedExtensions = []string{".pdf", ".docx", ".txt"}

// Lifecycle states of one upload attempt.
type LifecycleState string

const (
	StateIdle       LifecycleState = "Idle"
	StateValidating LifecycleState = "Validating"
	StateUploading  LifecycleState = "Uploading"
)

// Lifecycle triggers.
type LifecycleTrigger string

const (
	TriggerSelect  LifecycleTrigger = "Select"
	TriggerReject  LifecycleTrigger = "Reject"
	TriggerAccept  LifecycleTrigger = "Accept"
	TriggerSucceed LifecycleTrigger = "Succeed"
	TriggerFail    LifecycleTrigger = "Fail"
)

// File is a document picked by the user.
type File struct {
	Name string
	Data io.Reader
}

// Result is what the backend reports after ingesting a document.
type Result struct {
	IngestedChunks int    `json:"ingested_chunks"`
	Message        string `json:"message,omitempty"`
}

// ValidationError rejects a file before any request is made.
type ValidationError struct {
	Filename  string
	Extension string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s", e.Extension, e.Filename)
}

// Uploader is the subset of *api.Client used here.
type Uploader interface {
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// Controller owns the upload view state. Concurrent SelectFile calls are not
// serialized: each runs its own lifecycle and the last response to arrive
// determines the state.
type Controller struct {
	client Uploader
	state  viewstate.Holder[Result]

	mu       sync.Mutex
	selected string
}

// NewController returns an idle controller.
func NewController(uploader Uploader) *Controller {
	return &Controller{client: uploader}
}

// State returns the current view state.
func (c *Controller) State() viewstate.State[Result] { return c.state.Current() }

// Selected returns the filename held by the file input, if any. It is reset
// after a successful upload so the same name can be picked again.
func (c *Controller) Selected() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

func (c *Controller) setSelected(name string) {
	c.mu.Lock()
	c.selected = name
	c.mu.Unlock()
}

// Extension returns the lowercase suffix starting at the last dot, or "" when
// the name has none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// Allowed reports whether name carries an accepted extension.
func Allowed(name string) bool {
	ext := Extension(name)
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// newLifecycle builds the state machine for one attempt. State updates happen
// in entry hooks so the view state always mirrors the machine.
func (c *Controller) newLifecycle() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(StateIdle)

	fsm.Configure(StateIdle).
		Permit(TriggerSelect, StateValidating).
		OnEntryFrom(TriggerReject, func(_ context.Context, args ...any) error {
			c.state.Fail(InvalidTypeMessage)
			return nil
		}).
		OnEntryFrom(TriggerSucceed, func(_ context.Context, args ...any) error {
			c.state.Succeed(args[0].(Result))
			c.setSelected("")
			return nil
		}).
		OnEntryFrom(TriggerFail, func(_ context.Context, args ...any) error {
			c.state.Fail(api.Message(args[0].(error), FallbackError))
			return nil
		})

	fsm.Configure(StateValidating).
		Permit(TriggerReject, StateIdle).
		Permit(TriggerAccept, StateUploading)

	fsm.Configure(StateUploading).
		Permit(TriggerSucceed, StateIdle).
		Permit(TriggerFail, StateIdle).
		OnEntry(func(context.Context, ...any) error {
			c.state.Begin()
			return nil
		})

	return fsm
}

// SelectFile validates f and uploads it. A nil file (cancelled picker) is a
// no-op. The returned error is informational; the view state already carries
// the outcome.
func (c *Controller) SelectFile(ctx context.Context, f *File) (Result, error) {
	if f == nil {
		return Result{}, nil
	}

	fsm := c.newLifecycle()
	if err := fsm.FireCtx(ctx, TriggerSelect); err != nil {
		return Result{}, err
	}
	c.setSelected(f.Name)

	if !Allowed(f.Name) {
		verr := &ValidationError{Filename: f.Name, Extension: Extension(f.Name)}
		logger.L.Info("upload rejected", "file", f.Name, "extension", verr.Extension)
		if err := fsm.FireCtx(ctx, TriggerReject); err != nil {
			return Result{}, err
		}
		return Result{}, verr
	}

	if err := fsm.FireCtx(ctx, TriggerAccept); err != nil {
		return Result{}, err
	}

	var result Result
	if err := c.client.Upload(ctx, Path, FormField, f.Name, f.Data, &result); err != nil {
		logger.L.Warn("upload failed", "file", f.Name, "error", err)
		if fireErr := fsm.FireCtx(ctx, TriggerFail, err); fireErr != nil {
			logger.L.Warn("FSM fire error", "error", fireErr)
		}
		return Result{}, err
	}
	if result.IngestedChunks < 0 {
		err := fmt.Errorf("backend reported %d ingested chunks", result.IngestedChunks)
		if fireErr := fsm.FireCtx(ctx, TriggerFail, err); fireErr != nil {
			logger.L.Warn("FSM fire error", "error", fireErr)
		}
		return Result{}, err
	}

	if err := fsm.FireCtx(ctx, TriggerSucceed, result); err != nil {
		return Result{}, err
	}
	logger.L.Info("upload ingested", "file", f.Name, "chunks", result.IngestedChunks)
	return result, nil
}
