package history

import "sync"

// Log is the session-local conversation log. It is populated by Fetch, appended
// to by the chat controller, and never persisted locally.
type Log struct {
	mu       sync.Mutex
	messages []Message
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{messages: make([]Message, 0, 64)}
}

// Messages returns a copy in insertion order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]Message, len(l.messages))
	copy(cp, l.messages)
	return cp
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Append adds msgs as one unit so no reader sees a partial exchange.
func (l *Log) Append(msgs ...Message) {
	l.mu.Lock()
	l.messages = append(l.messages, msgs...)
	l.mu.Unlock()
}

// Replace discards the current contents in favour of msgs, keeping their order.
func (l *Log) Replace(msgs []Message) {
	cp := make([]Message, len(msgs))
	copy(cp, msgs)
	l.mu.Lock()
	l.messages = cp
	l.mu.Unlock()
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	l.messages = l.messages[:0:0]
	l.mu.Unlock()
}
