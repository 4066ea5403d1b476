// Package chat sends user messages to the assistant and records each
// completed exchange in the conversation log.
package chat

import (
	"context"
	"net/http"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/history"
	"github.com/comigor/memoria/internal/logger"
	"github.com/comigor/memoria/internal/viewstate"
)

const (
	// Path is the backend chat endpoint.
	Path = "/chat"
	// DefaultTopK is the retrieval breadth used when none is configured.
	DefaultTopK = 4
	// FallbackError is shown when the backend gives no detail.
	FallbackError = "Failed to send message. Please try again."
)

// Requester is the subset of *api.Client used here.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Retrieved is one context chunk the backend used for its reply.
type Retrieved struct {
	Text     string         `json:"text"`
	Meta     map[string]any `json:"meta,omitempty"`
	Distance float64        `json:"distance"`
}

// Reply is the success payload of a send.
type Reply struct {
	Reply     string      `json:"reply"`
	Retrieved []Retrieved `json:"retrieved"`
}

type request struct {
	Message string `json:"message"`
	TopK    int    `json:"top_k"`
}

// Controller sends messages and appends exchanges to a shared log.
type Controller struct {
	client Requester
	log    *history.Log
	topK   int
	state  viewstate.Holder[Reply]
}

// NewController returns a controller appending to log. A topK of zero means
// DefaultTopK.
func NewController(requester Requester, log *history.Log, topK int) *Controller {
	if topK == 0 {
		topK = DefaultTopK
	}
	return &Controller{client: requester, log: log, topK: topK}
}

// State returns the current view state.
func (c *Controller) State() viewstate.State[Reply] { return c.state.Current() }

type sendOptions struct {
	topK int
}

// Option adjusts a single Send.
type Option func(*sendOptions)

// WithTopK overrides the retrieval breadth. The value is passed through
// unvalidated; range checks belong to the backend.
func WithTopK(k int) Option {
	return func(o *sendOptions) { o.topK = k }
}

// Send posts message and, on success, appends the user turn followed by the
// assistant turn. On failure the log is left untouched.
func (c *Controller) Send(ctx context.Context, message string, opts ...Option) (Reply, error) {
	o := sendOptions{topK: c.topK}
	for _, opt := range opts {
		opt(&o)
	}

	// stamped before the request so the user turn precedes the reply
	userTurn := history.NewMessage(history.RoleUser, message)
	c.state.Begin()

	var reply Reply
	if err := c.client.Do(ctx, http.MethodPost, Path, request{Message: message, TopK: o.topK}, &reply); err != nil {
		logger.L.Warn("chat send failed", "top_k", o.topK, "error", err)
		c.state.Fail(api.Message(err, FallbackError))
		return Reply{}, err
	}

	c.log.Append(userTurn, history.NewMessage(history.RoleAssistant, reply.Reply))
	c.state.Succeed(reply)
	logger.L.Debug("chat reply received", "retrieved", len(reply.Retrieved))
	return reply, nil
}
