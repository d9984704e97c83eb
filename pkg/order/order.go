package order

import (
	"fmt"
	"math"
	"time"
)

// Status is the lifecycle state of an order at creation time.
// Later transitions (processing, fulfilment) belong to the downstream workers
// consuming the queue, not to this service.
type Status string

const (
	// StatusPending means the order is durably recorded and a processing
	// message was handed to the queue.
	StatusPending Status = "PENDING"
	// StatusEnqueueFailed means the order is durably recorded but the
	// processing message could not be enqueued; the reconciler worker picks
	// these up later.
	StatusEnqueueFailed Status = "ENQUEUE_FAILED"
)

// Item is a single line of an order.
// Ensure all fields are exported (start with uppercase) for JSON serialization.
type Item struct {
	SKU      string  `json:"sku"`      // Stock keeping unit, non-empty.
	Price    float64 `json:"price"`    // Price per unit, non-negative.
	Quantity int     `json:"quantity"` // Number of units, at least 1.
}

// Record is the durable system-of-record entity for one submission.
type Record struct {
	OrderID     string    `json:"orderID"`     // Unique identifier, assigned exactly once before persistence.
	OwnerID     string    `json:"ownerID"`     // Identifier of the requesting principal.
	Items       []Item    `json:"items"`       // Order lines, insertion order preserved from the request.
	TotalAmount float64   `json:"totalAmount"` // Derived from Items, never taken from the caller.
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidationError describes a caller input defect. Submissions that fail
// validation produce no side effects at all.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateRequest checks the caller-supplied fields of a submission before any
// side effect occurs. OwnerID must be non-empty; items must be a non-empty list
// of well-formed lines.
func ValidateRequest(ownerID string, items []Item) error {
	if ownerID == "" {
		return &ValidationError{Field: "ownerID", Reason: "must not be empty"}
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "must contain at least one item"}
	}
	for i, item := range items {
		if item.SKU == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].sku", i), Reason: "must not be empty"}
		}
		if item.Price < 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].price", i), Reason: "must not be negative"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be at least 1"}
		}
	}
	return nil
}

// ComputeTotal derives the order total from its items. Each line subtotal
// (price x quantity) is rounded to the nearest cent, half away from zero, and
// the totals are summed in integer cents so the result does not depend on item
// ordering or float accumulation order.
func ComputeTotal(items []Item) float64 {
	var cents int64
	for _, item := range items {
		cents += int64(math.Round(item.Price * float64(item.Quantity) * 100))
	}
	return float64(cents) / 100
}

// NewRecord builds an order record for a validated request. The caller supplies
// the already-generated orderID and the creation timestamp so that ID
// generation stays side-effect free and tests can pin the clock.
func NewRecord(orderID, ownerID string, items []Item, createdAt time.Time) Record {
	return Record{
		OrderID:     orderID,
		OwnerID:     ownerID,
		Items:       items,
		TotalAmount: ComputeTotal(items),
		Status:      StatusPending,
		CreatedAt:   createdAt,
	}
}
