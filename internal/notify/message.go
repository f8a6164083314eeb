package notify

import (
	"encoding/json"
	"time"

	"github.com/pocketbook/pocketbook/internal/event_bus"
)

// Message is the JSON body sent for every forwarded event.
type Message struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func NewMessage(e event_bus.Event) Message {
	return Message{Event: string(e.Type), Timestamp: e.Timestamp, Data: e.Data}
}

func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
