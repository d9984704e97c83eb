// Package queue defines the processing queue collaborator and its NATS
// JetStream implementation.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"Order-Intake-Service/pkg/events"
)

// Publisher hands processing messages to the queue. A nil return means the
// queue accepted the message; delivery and redelivery from that point on are
// the queue's responsibility, not the caller's.
type Publisher interface {
	Send(msg events.ProcessingMessage) error
}

// JetStreamPublisher publishes processing messages to a JetStream subject.
type JetStreamPublisher struct {
	js      nats.JetStreamContext
	subject string
}

func NewJetStreamPublisher(js nats.JetStreamContext, subject string) *JetStreamPublisher {
	return &JetStreamPublisher{js: js, subject: subject}
}

// Send publishes the message synchronously and waits for the JetStream ack.
// The orderID travels in a message header so consumers can filter without
// deserializing the body.
func (p *JetStreamPublisher) Send(msg events.ProcessingMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal processing message for %s: %w", msg.Order.OrderID, err)
	}
	natsMsg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header:  nats.Header{events.HeaderOrderID: []string{msg.Order.OrderID}},
	}
	if _, err := p.js.PublishMsg(natsMsg); err != nil {
		return fmt.Errorf("publish processing message for %s: %w", msg.Order.OrderID, err)
	}
	return nil
}

// EnsureStream creates the stream holding order processing messages if it does
// not exist yet. Safe to call from every binary on boot.
func EnsureStream(js nats.JetStreamContext, streamName string) error {
	_, err := js.StreamInfo(streamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info for %s: %w", streamName, err)
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{streamName + ".*"},
		Storage:  nats.FileStorage, // Use FileStorage for persistence.
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", streamName, err)
	}
	return nil
}
