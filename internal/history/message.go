package history

import (
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"

	"github.com/comigor/memoria/internal/logger"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn. Messages are values and are never
// mutated once created; insertion order, not CreatedAt, defines ordering.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`
}

// NewMessage stamps a message with the client clock.
func NewMessage(role Role, text string) Message {
	return Message{Role: role, Text: text, CreatedAt: Timestamp{time.Now().UTC()}}
}

// Timestamp accepts RFC3339 as well as the zone-less ISO form the backend
// emits for stored conversations.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		// null or a non-string value: informational only, keep zero
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		logger.L.Debug("unparseable created_at", "value", s, "error", err)
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}
