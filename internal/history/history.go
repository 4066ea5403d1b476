// Package history owns the conversation log and keeps it in sync with the
// backend's persisted history.
// There is no server-side clear: ClearLocal only affects this session and the
// messages come back on the next Fetch.
package history

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/logger"
	"github.com/comigor/memoria/internal/viewstate"
)

// Path is the backend history endpoint.
const Path = "/history"

// FallbackError is shown when the backend gives no detail.
const FallbackError = "Failed to load history"

// Requester is the subset of *api.Client used here.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Controller fetches and clears the conversation log.
type Controller struct {
	client Requester
	log    *Log
	state  viewstate.Holder[[]Message]

	activated atomic.Bool
}

// NewController wires a controller over log.
func NewController(requester Requester, log *Log) *Controller {
	return &Controller{client: requester, log: log}
}

// Log exposes the conversation log shared with the chat controller.
func (c *Controller) Log() *Log { return c.log }

// State returns the current view state.
func (c *Controller) State() viewstate.State[[]Message] { return c.state.Current() }

type historyResponse struct {
	History []Message `json:"history"`
}

// Fetch replaces the whole log with the server's history, in server order.
// An absent history field yields an empty log.
func (c *Controller) Fetch(ctx context.Context) error {
	c.state.Begin()

	var resp historyResponse
	if err := c.client.Do(ctx, http.MethodGet, Path, nil, &resp); err != nil {
		logger.L.Warn("history fetch failed", "error", err)
		c.state.Fail(api.Message(err, FallbackError))
		return err
	}
	if resp.History == nil {
		resp.History = []Message{}
	}

	c.log.Replace(resp.History)
	c.state.Succeed(c.log.Messages())
	logger.L.Debug("history fetched", "messages", len(resp.History))
	return nil
}

// Activate fetches on the first activation only.
func (c *Controller) Activate(ctx context.Context) error {
	if !c.activated.CompareAndSwap(false, true) {
		return nil
	}
	return c.Fetch(ctx)
}

// ClearLocal empties the log without contacting the backend.
func (c *Controller) ClearLocal() {
	c.log.Clear()
	if _, ok := c.state.Current().Payload(); ok {
		c.state.Succeed([]Message{})
	}
}
