// Package dashboard assembles the controllers around one HTTP client and one
// conversation log.
package dashboard

import (
	"context"

	"github.com/comigor/memoria/internal/api"
	"github.com/comigor/memoria/internal/auth"
	"github.com/comigor/memoria/internal/chat"
	"github.com/comigor/memoria/internal/config"
	"github.com/comigor/memoria/internal/credential"
	"github.com/comigor/memoria/internal/history"
	"github.com/comigor/memoria/internal/upload"
	"github.com/comigor/memoria/internal/view"
)

// Dashboard is the client orchestration layer as seen by a presentation layer.
type Dashboard struct {
	Auth    *auth.Service
	Chat    *chat.Controller
	Upload  *upload.Controller
	History *history.Controller
	View    *view.Orchestrator
}

// New wires every controller through a single api.Client.
func New(cfg config.Config, store credential.Store, opts ...api.Option) *Dashboard {
	client := api.NewClient(cfg.API, store, opts...)
	log := history.NewLog()
	return &Dashboard{
		Auth:    auth.NewService(client, store),
		Chat:    chat.NewController(client, log, cfg.Chat.TopK),
		Upload:  upload.NewController(client),
		History: history.NewController(client, log),
		View:    view.NewOrchestrator(),
	}
}

// Open selects tab and then applies that tab's activation policy. Only the
// history view loads anything, and only the first time it is opened.
func (d *Dashboard) Open(ctx context.Context, tab view.Tab) error {
	d.View.Select(tab)
	if d.View.Active() == view.TabHistory {
		return d.History.Activate(ctx)
	}
	return nil
}
