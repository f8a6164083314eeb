package notify

import (
	"github.com/pocketbook/pocketbook/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Forwarder republishes bus events to an external broker. The event type is
// used as routing key.
type Forwarder struct {
	publisher Publisher
}

func NewForwarder(publisher Publisher) *Forwarder {
	return &Forwarder{publisher: publisher}
}

// Attach subscribes the forwarder to every event type on bus. Broker failures
// are logged and never reported back to the publisher of the event.
func (f *Forwarder) Attach(bus *event_bus.EventBus) (unsubscribe func()) {
	return bus.SubscribeMany(event_bus.AllEventTypes, f.forward)
}

func (f *Forwarder) forward(e event_bus.Event) error {
	body, err := NewMessage(e).ToJSON()
	if err != nil {
		log.Errorf("could not encode %s event: %v", e.Type, err)
		return nil
	}
	if err := f.publisher.Publish(e.Context(), string(e.Type), body); err != nil {
		log.Warnf("could not forward %s event: %v", e.Type, err)
	}
	return nil
}
