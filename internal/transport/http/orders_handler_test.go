package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mlindqvist/order-service/internal/client/payment"
	"github.com/mlindqvist/order-service/internal/client/reservation"
	"github.com/mlindqvist/order-service/internal/domain"
	"github.com/mlindqvist/order-service/internal/service/lifecycle"
	"github.com/mlindqvist/order-service/internal/service/pricing"
	"github.com/mlindqvist/order-service/internal/storage/memory"
)

type handlerFixture struct {
	router   *chi.Mux
	gateway  *reservation.MockGateway
	payments *payment.MockProcessor
	manager  *lifecycle.Manager
}

func newHandlerFixture() *handlerFixture {
	logger := log.New()
	logger.SetOutput(io.Discard)
	entry := logger.WithField("component", "http-test")

	gateway := reservation.NewMockGateway()
	payments := payment.NewMockProcessor()
	manager := lifecycle.NewManagerWithoutMetrics(
		memory.NewOrderRepository(),
		memory.NewOrderItemRepository(),
		gateway,
		payments,
		pricing.NewFlatPricer(0, ""),
		memory.NewOutboxRepository(),
		entry,
	)

	return &handlerFixture{
		router:   NewRouter(NewOrdersHandler(manager, entry)),
		gateway:  gateway,
		payments: payments,
		manager:  manager,
	}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *handlerFixture) createOrder(t *testing.T) orderResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/orders", createOrderRequest{UserID: 42})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestCreateOrderEndpoint(t *testing.T) {
	f := newHandlerFixture()

	order := f.createOrder(t)
	require.NotZero(t, order.ID)
	require.Equal(t, int64(42), order.UserID)
	require.Equal(t, "ongoing", order.Status)
}

func TestCreateOrderEndpoint_MissingUser(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodPost, "/orders", createOrderRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemEndpoint(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	var item itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, int32(3), item.Quantity)
	require.Len(t, f.gateway.ReserveCalls, 1)
}

func TestAddItemEndpoint_NonPositiveQuantity(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, f.gateway.ReserveCalls)
}

func TestAddItemEndpoint_OrderNotFound(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodPost, "/orders/999/items", itemRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItemEndpoint_GatewayDown(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)
	f.gateway.ReserveErr = domain.WrapExternal("reserve products", errors.New("connection refused"))

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpdateItemEndpoint(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/orders/"+itoa(order.ID)+"/items/7", updateItemRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, order.ID, updated.ID)

	items, err := f.manager.GetOrderItems(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(5), items[0].Quantity)
}

func TestUpdateItemEndpoint_ZeroRemoves(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/orders/"+itoa(order.ID)+"/items/7", updateItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	items, err := f.manager.GetOrderItems(context.Background(), order.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDeleteOrderEndpoint(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodDelete, "/orders/"+itoa(order.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/orders/"+itoa(order.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrderEndpoint_MissingIsNoop(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodDelete, "/orders/12345", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFinalizeOrderEndpoint(t *testing.T) {
	f := newHandlerFixture()
	order := f.createOrder(t)

	rec := f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/items", itemRequest{ProductID: 7, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/finalize", finalizeRequest{Method: "card"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp finalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TransactionID)
	require.Equal(t, "completed", resp.Order.Status)

	// Повторная финализация завершённого заказа.
	rec = f.do(t, http.MethodPost, "/orders/"+itoa(order.ID)+"/finalize", finalizeRequest{})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListUserOrdersEndpoint(t *testing.T) {
	f := newHandlerFixture()
	f.createOrder(t)
	f.createOrder(t)

	rec := f.do(t, http.MethodGet, "/users/42/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)

	rec = f.do(t, http.MethodGet, "/users/42/orders?after=2099-01-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Empty(t, orders)

	rec = f.do(t, http.MethodGet, "/users/42/orders?after=not-a-date", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthzEndpoint(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
