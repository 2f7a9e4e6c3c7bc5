package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	TypeJobCreated = "job_created"
	TypeJobUpdated = "job_updated"
	TypeJobDeleted = "job_deleted"
	TypePing       = "ping"
)

// Event is the envelope published on the hub and written to SSE clients.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	// PostedBy scopes job events to the owning admin. Not serialised.
	PostedBy string `json:"-"`
}

func MakeEvent(reqID, typ string, v int, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

func (e Event) String() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// IsJobChange reports whether e signals a mutation of the job store.
func (e Event) IsJobChange() bool {
	switch e.Type {
	case TypeJobCreated, TypeJobUpdated, TypeJobDeleted:
		return true
	}
	return false
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// WithRequestID tags ctx so events published while serving it carry the id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
