package mailer

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher puts a payload on a message broker.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueTransport hands messages to a broker; a consumer performs the actual
// delivery. A successful publish counts as a successful send.
type QueueTransport struct {
	pub Publisher
}

func NewQueueTransport(pub Publisher) *QueueTransport {
	return &QueueTransport{pub: pub}
}

func (t *QueueTransport) Name() string { return "queue" }

func (t *QueueTransport) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := t.pub.Publish(ctx, payload); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// DecodeMessage is the consumer-side counterpart of QueueTransport.Send.
func DecodeMessage(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal notification: %w", err)
	}
	if len(msg.To) == 0 {
		return Message{}, errNoRecipients
	}
	return msg, nil
}
