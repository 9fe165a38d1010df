package mqtt

import (
	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/msgs"
)

// Publisher sends events to id/evt.
type Publisher struct {
	Queue *Queue
	Topic string
}

// NewPublisher creates a Publisher for the instance id.
func NewPublisher(q *Queue, id string) *Publisher {
	return &Publisher{Queue: q, Topic: id + TopicEvent}
}

// Publish encodes an event message and publishes it.
func (p *Publisher) Publish(msg fx.Message) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	return p.Queue.Pub(p.Topic, pkt)
}
