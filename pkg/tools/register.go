package tools

import "github.com/comigor/memoria/internal/dashboard"

// Register adds every dashboard operation to m.
func Register(m *ToolManager, d *dashboard.Dashboard) {
	m.RegisterTool(NewChatTool(d.Chat))
	m.RegisterTool(NewUploadTool(d.Upload))
	m.RegisterTool(NewHistoryFetchTool(d.History))
	m.RegisterTool(NewHistoryClearTool(d.History))
}
