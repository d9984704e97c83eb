// Package api is the inbound HTTP boundary: it decodes submission requests,
// invokes the coordinator, and maps each submission outcome to a distinct
// caller-visible response.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"Order-Intake-Service/pkg/coordinator"
	"Order-Intake-Service/pkg/order"
	"Order-Intake-Service/pkg/store"
)

// Submitter runs the order submission protocol.
type Submitter interface {
	Submit(ctx context.Context, req coordinator.Request) (coordinator.Result, error)
}

// OrderGetter reads persisted orders for the lookup endpoint.
type OrderGetter interface {
	Get(ctx context.Context, orderID string) (order.Record, error)
}

// CreateOrderRequest is the submission payload. OwnerID is already
// authenticated by the upstream gateway; this service trusts it.
type CreateOrderRequest struct {
	OwnerID string       `json:"ownerID"`
	Items   []order.Item `json:"items"`
}

// CreateOrderResponse reports the durable outcome of a submission. Status and
// Warning distinguish degraded success (order recorded, processing not
// triggered) from full success.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	submitter Submitter
	orders    OrderGetter
	log       *logrus.Entry
}

func NewHandler(submitter Submitter, orders OrderGetter, log *logrus.Entry) *Handler {
	return &Handler{submitter: submitter, orders: orders, log: log}
}

// CreateOrder maps submission outcomes to status codes: 201 on full success,
// 200 with a warning body on degraded success, 400 on bad input, 500 when the
// order was not created.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Warn("Invalid order payload")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order payload: " + err.Error()})
		return
	}

	result, err := h.submitter.Submit(r.Context(), coordinator.Request{
		OwnerID: req.OwnerID,
		Items:   req.Items,
	})
	if err != nil {
		var validationErr *order.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
			return
		}
		h.log.WithError(err).Error("Order submission failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "order was not created"})
		return
	}

	if result.Warning != "" {
		writeJSON(w, http.StatusOK, CreateOrderResponse{
			OrderID: result.OrderID,
			Status:  string(result.Status),
			Warning: result.Warning,
		})
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		OrderID: result.OrderID,
		Status:  string(result.Status),
		Message: "Order created successfully",
	})
}

// GetOrder returns the stored record for an orderID, or 404.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := muxVar(r, "orderID")
	rec, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "order not found"})
			return
		}
		h.log.WithError(err).WithField("order_id", orderID).Error("Order lookup failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "order lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HealthCheck responds to liveness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
