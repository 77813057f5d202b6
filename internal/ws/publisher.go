package ws

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"go-pos-backend/internal/events"
)

// HubPublisher adapts the hub to the events.Publisher interface consumed by
// the services. Publishing never blocks the caller: if the broadcast buffer
// is full the event is dropped and logged.
type HubPublisher struct {
	hub *Hub
	log *logrus.Logger
}

func NewHubPublisher(hub *Hub, log *logrus.Logger) *HubPublisher {
	return &HubPublisher{hub: hub, log: log}
}

func (p *HubPublisher) Publish(evt events.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		p.log.WithError(err).Warn("failed to encode ws event")
		return
	}
	select {
	case p.hub.Broadcast <- msg:
	default:
		p.log.WithField("type", evt.Type).Warn("ws broadcast buffer full, event dropped")
	}
}
