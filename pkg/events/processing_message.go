package events

import (
	"time"

	"Order-Intake-Service/pkg/order"
)

// HeaderOrderID is the message header carrying the order identifier, so queue
// consumers and tooling can filter or route without deserializing the body.
const HeaderOrderID = "Order-Id"

// ProcessingMessage is the queue payload signaling downstream work on an order.
// It carries a full copy of the order record; exactly one message is created
// per successfully persisted order.
// Ensure all fields are exported (start with uppercase) for JSON serialization.
type ProcessingMessage struct {
	Order      order.Record `json:"order"`      // Snapshot of the persisted record.
	EnqueuedAt time.Time    `json:"enqueuedAt"` // When the publisher handed the message to the queue.
}
