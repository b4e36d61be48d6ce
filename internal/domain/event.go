package domain

import (
	"encoding/json"
	"time"
)

// Event types the forum emits. The dispatcher ignores anything outside
// this set so producers can ship new types before subscribers exist.
const (
	EventMention = "mention"
	EventReply   = "reply"
	EventDigest  = "digest"
)

// KnownEventType reports whether t is one of the recognized event tags.
func KnownEventType(t string) bool {
	switch t {
	case EventMention, EventReply, EventDigest:
		return true
	}
	return false
}

// Event is a domain event handed to the dispatcher by the notification
// service. The payload is opaque to the delivery pipeline: it is
// serialized and signed, never interpreted.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Envelope is the wire format posted to subscriber endpoints.
type Envelope struct {
	Event        string          `json:"event"`
	Notification json.RawMessage `json:"notification"`
}
