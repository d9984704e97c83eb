// Package reconciler repairs orders left in ENQUEUE_FAILED by the submission
// path: it re-reads each degraded record, re-attempts the enqueue, and flips
// the record back to PENDING once the queue accepts the message. It runs as a
// separate worker, never inline with a submission.
package reconciler

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

// Sweeper performs one reconciliation pass at a time over the enqueue-failed
// index.
type Sweeper struct {
	store     store.Store
	publisher queue.Publisher
	now       func() time.Time
	log       *logrus.Entry
}

func NewSweeper(st store.Store, pub queue.Publisher, log *logrus.Entry) *Sweeper {
	return &Sweeper{store: st, publisher: pub, now: time.Now, log: log}
}

// Sweep re-enqueues every order currently indexed as ENQUEUE_FAILED. It
// returns how many orders were repaired and how many still need a later pass.
// A failure on one order never aborts the rest of the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (repaired, remaining int, err error) {
	ids, err := s.store.ListEnqueueFailed(ctx)
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, 0, nil
	}
	s.log.WithField("count", len(ids)).Info("Reconciling enqueue-failed orders")

	for _, orderID := range ids {
		if err := s.reconcileOne(ctx, orderID); err != nil {
			sweepResultsTotal.WithLabelValues(resultFailed).Inc()
			s.log.WithError(err).WithField("order_id", orderID).
				Warn("Reconciliation attempt failed, will retry on next sweep")
			remaining++
			continue
		}
		sweepResultsTotal.WithLabelValues(resultRepaired).Inc()
		repaired++
	}
	return repaired, remaining, nil
}

func (s *Sweeper) reconcileOne(ctx context.Context, orderID string) error {
	rec, err := s.store.Get(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		// Index entry without a record. Nothing to repair, nothing to enqueue.
		s.log.WithField("order_id", orderID).Error("Enqueue-failed index references a missing order record")
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status != order.StatusEnqueueFailed {
		// Already repaired elsewhere; clear the stale index entry.
		return s.store.UpdateStatus(ctx, orderID, rec.Status)
	}

	rec.Status = order.StatusPending
	msg := events.ProcessingMessage{Order: rec, EnqueuedAt: s.now().UTC()}
	if err := s.publisher.Send(msg); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, orderID, order.StatusPending); err != nil {
		// The message is on the queue but the record still says ENQUEUE_FAILED.
		// The next sweep re-sends it; downstream processing must tolerate the
		// duplicate, which queue consumers already have to do.
		return err
	}
	s.log.WithField("order_id", orderID).Info("Order re-enqueued and restored to PENDING")
	return nil
}
