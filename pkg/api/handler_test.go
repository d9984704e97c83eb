package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Order-Intake-Service/pkg/coordinator"
	"Order-Intake-Service/pkg/order"
	"Order-Intake-Service/pkg/store"
)

type mockSubmitter struct {
	submitFn func(ctx context.Context, req coordinator.Request) (coordinator.Result, error)
	lastReq  coordinator.Request
}

func (m *mockSubmitter) Submit(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
	m.lastReq = req
	return m.submitFn(ctx, req)
}

type mockOrderGetter struct {
	getFn func(ctx context.Context, orderID string) (order.Record, error)
}

func (m *mockOrderGetter) Get(ctx context.Context, orderID string) (order.Record, error) {
	return m.getFn(ctx, orderID)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func postOrder(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

const validBody = `{"ownerID":"user-1","items":[{"sku":"A","price":10.00,"quantity":2},{"sku":"B","price":5.50,"quantity":1}]}`

func TestCreateOrderFullSuccessReturns201(t *testing.T) {
	submitter := &mockSubmitter{
		submitFn: func(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
			return coordinator.Result{OrderID: "ord_1", Accepted: true, Status: order.StatusPending}, nil
		},
	}
	h := NewHandler(submitter, &mockOrderGetter{}, testLogger())

	rec := postOrder(t, h, validBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ord_1", resp.OrderID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Empty(t, resp.Warning)

	require.Len(t, submitter.lastReq.Items, 2)
	assert.Equal(t, "user-1", submitter.lastReq.OwnerID)
	assert.Equal(t, order.Item{SKU: "A", Price: 10.00, Quantity: 2}, submitter.lastReq.Items[0])
}

func TestCreateOrderDegradedSuccessReturns200WithWarning(t *testing.T) {
	submitter := &mockSubmitter{
		submitFn: func(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
			return coordinator.Result{
				OrderID:  "ord_1",
				Accepted: true,
				Status:   order.StatusEnqueueFailed,
				Warning:  coordinator.WarningReconciliation,
			}, nil
		},
	}
	h := NewHandler(submitter, &mockOrderGetter{}, testLogger())

	rec := postOrder(t, h, validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ord_1", resp.OrderID, "the caller must still receive the orderId of the recorded order")
	assert.Equal(t, "ENQUEUE_FAILED", resp.Status)
	assert.Equal(t, coordinator.WarningReconciliation, resp.Warning)
}

func TestCreateOrderValidationErrorReturns400(t *testing.T) {
	submitter := &mockSubmitter{
		submitFn: func(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
			return coordinator.Result{}, &order.ValidationError{Field: "items", Reason: "must contain at least one item"}
		},
	}
	h := NewHandler(submitter, &mockOrderGetter{}, testLogger())

	rec := postOrder(t, h, `{"ownerID":"user-1","items":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "items")
}

func TestCreateOrderMalformedJSONReturns400(t *testing.T) {
	submitter := &mockSubmitter{
		submitFn: func(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
			t.Fatal("submitter must not be called for malformed payloads")
			return coordinator.Result{}, nil
		},
	}
	h := NewHandler(submitter, &mockOrderGetter{}, testLogger())

	rec := postOrder(t, h, `{"ownerID":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderPersistenceErrorReturns500(t *testing.T) {
	submitter := &mockSubmitter{
		submitFn: func(ctx context.Context, req coordinator.Request) (coordinator.Result, error) {
			return coordinator.Result{}, &coordinator.PersistenceError{Cause: errors.New("store unavailable")}
		},
	}
	h := NewHandler(submitter, &mockOrderGetter{}, testLogger())

	rec := postOrder(t, h, validBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order was not created", resp.Error)
}

func TestGetOrderReturnsStoredRecord(t *testing.T) {
	stored := order.Record{
		OrderID:     "ord_1",
		OwnerID:     "user-1",
		Items:       []order.Item{{SKU: "A", Price: 10.00, Quantity: 2}},
		TotalAmount: 20.00,
		Status:      order.StatusPending,
		CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	getter := &mockOrderGetter{
		getFn: func(ctx context.Context, orderID string) (order.Record, error) {
			assert.Equal(t, "ord_1", orderID)
			return stored, nil
		},
	}
	h := NewHandler(&mockSubmitter{}, getter, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ord_1", nil)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp order.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, stored, resp)
}

func TestGetOrderUnknownIDReturns404(t *testing.T) {
	getter := &mockOrderGetter{
		getFn: func(ctx context.Context, orderID string) (order.Record, error) {
			return order.Record{}, store.ErrNotFound
		},
	}
	h := NewHandler(&mockSubmitter{}, getter, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ord_missing", nil)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	h := NewHandler(&mockSubmitter{}, &mockOrderGetter{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
