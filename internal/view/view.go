// Package view tracks which controller's view is active.
package view

import (
	"fmt"
	"strings"
	"sync"
)

// Tab is one of the closed set of views.
type Tab string

const (
	TabChat    Tab = "chat"
	TabFiles   Tab = "files"
	TabHistory Tab = "history"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabChat, TabFiles, TabHistory}

// Valid reports whether t belongs to the closed set.
func (t Tab) Valid() bool {
	switch t {
	case TabChat, TabFiles, TabHistory:
		return true
	}
	return false
}

// ParseTab maps user input to a Tab, case-insensitively.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tab %q (want chat, files or history)", s)
	}
	return t, nil
}

// Orchestrator holds the single active tab. Selecting a tab has no other side
// effect; controllers decide what to do when activated.
type Orchestrator struct {
	mu     sync.RWMutex
	active Tab
}

// NewOrchestrator starts on the chat tab.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{active: TabChat}
}

// Active returns the selected tab.
func (o *Orchestrator) Active() Tab {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active
}

// Select makes t active. Values outside the closed set are ignored.
func (o *Orchestrator) Select(t Tab) {
	if !t.Valid() {
		return
	}
	o.mu.Lock()
	o.active = t
	o.mu.Unlock()
}
