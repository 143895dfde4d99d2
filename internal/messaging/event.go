package messaging

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Action describes what happened to a document.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

const (
	headerResource = "resource"
	headerAction   = "action"
)

// Event is published after every successful write to a resource.
type Event struct {
	Resource   string    `json:"resource"`
	Action     Action    `json:"action"`
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key partitions events of the same document together.
func (e Event) Key() []byte {
	return []byte(e.Resource + ":" + e.ID)
}

func (e Event) Headers() map[string]string {
	return map[string]string{
		headerResource: e.Resource,
		headerAction:   string(e.Action),
	}
}

func (e Event) Encode() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(e)
}

// DecodeEvent parses a message produced by Event.Encode.
func DecodeEvent(msg Message) (Event, error) {
	var e Event
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(msg.Value, &e); err != nil {
		return Event{}, fmt.Errorf("decode event at offset %d: %w", msg.Offset, err)
	}
	if e.Resource == "" {
		e.Resource = msg.Headers[headerResource]
	}
	if e.Action == "" {
		e.Action = Action(msg.Headers[headerAction])
	}
	return e, nil
}
