// Package coordinator implements the order submission dual-write protocol:
// persist the order as the system of record, then hand a processing message to
// the queue. The two writes are not atomic; the coordinator's job is to make
// sure they never silently diverge, and that the caller always learns the true
// durable state of their order.
package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"Order-Intake-Service/pkg/events"
	"Order-Intake-Service/pkg/order"
	"Order-Intake-Service/pkg/queue"
	"Order-Intake-Service/pkg/store"
)

// WarningReconciliation annotates a degraded success: the order exists but its
// processing message could not be enqueued.
const WarningReconciliation = "queued for manual reconciliation"

// Request is a validated-at-the-boundary submission. OwnerID is trusted as
// already authenticated by the transport layer.
type Request struct {
	OwnerID string
	Items   []order.Item
}

// Result reflects the true durable state of a submission, not merely "request
// accepted". Accepted is true whenever the record exists in the store, even if
// the enqueue step failed.
type Result struct {
	OrderID  string
	Accepted bool
	Status   order.Status
	Warning  string
}

// PersistenceError means the store rejected or failed the put: the order was
// NOT created and nothing was enqueued. The caller may retry the whole
// submission.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return "order was not created: " + e.Cause.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// Coordinator owns one submission at a time; it holds no shared mutable state,
// so a single instance is safe under unbounded concurrent Submit calls.
type Coordinator struct {
	store     store.Store
	publisher queue.Publisher
	ids       order.IDGenerator
	now       func() time.Time
	log       *logrus.Entry
}

func New(st store.Store, pub queue.Publisher, ids order.IDGenerator, log *logrus.Entry) *Coordinator {
	return &Coordinator{
		store:     st,
		publisher: pub,
		ids:       ids,
		now:       time.Now,
		log:       log,
	}
}

// Submit runs one submission attempt through the full sequence:
// validate, build record, persist, enqueue.
//
// Failure policy:
//   - validation failure: *order.ValidationError, zero side effects.
//   - persist failure: *PersistenceError, nothing enqueued, order not created.
//   - enqueue failure: degraded success. The record is flipped to
//     ENQUEUE_FAILED (best effort) and the caller gets Accepted=true with a
//     warning, because the order does durably exist.
func (c *Coordinator) Submit(ctx context.Context, req Request) (Result, error) {
	if err := order.ValidateRequest(req.OwnerID, req.Items); err != nil {
		submissionsTotal.WithLabelValues(outcomeValidationError).Inc()
		return Result{}, err
	}

	rec := order.NewRecord(c.ids.NewOrderID(), req.OwnerID, req.Items, c.now().UTC())

	if err := c.persist(ctx, &rec); err != nil {
		submissionsTotal.WithLabelValues(outcomePersistenceError).Inc()
		return Result{}, err
	}

	// The record now durably exists. Abandoning the enqueue because the caller
	// hung up would strand the order as PENDING with no trace that
	// reconciliation is needed, so the remaining steps run detached from
	// caller cancellation.
	ctx = context.WithoutCancel(ctx)

	msg := events.ProcessingMessage{Order: rec, EnqueuedAt: c.now().UTC()}
	if err := c.publisher.Send(msg); err != nil {
		c.log.WithError(err).WithField("order_id", rec.OrderID).
			Warn("Order persisted but enqueue failed, degrading to ENQUEUE_FAILED")
		if updateErr := c.store.UpdateStatus(ctx, rec.OrderID, order.StatusEnqueueFailed); updateErr != nil {
			// No inline retry: the record stays PENDING and only the logs know
			// it needs repair. Surfaced loudly for operators.
			c.log.WithError(updateErr).WithField("order_id", rec.OrderID).
				Error("Failed to mark order ENQUEUE_FAILED after enqueue failure; record stranded as PENDING")
		}
		submissionsTotal.WithLabelValues(outcomeEnqueueFailed).Inc()
		return Result{
			OrderID:  rec.OrderID,
			Accepted: true,
			Status:   order.StatusEnqueueFailed,
			Warning:  WarningReconciliation,
		}, nil
	}

	submissionsTotal.WithLabelValues(outcomeAccepted).Inc()
	return Result{OrderID: rec.OrderID, Accepted: true, Status: order.StatusPending}, nil
}

// persist puts the record, treating an orderID collision as internal: the ID is
// regenerated and the put retried exactly once. A second conflict, or any other
// store failure, aborts the submission.
func (c *Coordinator) persist(ctx context.Context, rec *order.Record) error {
	err := c.store.PutNew(ctx, *rec)
	if errors.Is(err, store.ErrConflict) {
		c.log.WithField("order_id", rec.OrderID).
			Warn("Order ID collision on put, regenerating and retrying once")
		rec.OrderID = c.ids.NewOrderID()
		err = c.store.PutNew(ctx, *rec)
	}
	if err != nil {
		return &PersistenceError{Cause: err}
	}
	return nil
}
