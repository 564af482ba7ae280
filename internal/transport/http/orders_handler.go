package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/mlindqvist/order-service/internal/domain"
)

// OrderService описывает операции жизненного цикла, доступные по HTTP.
type OrderService interface {
	CreateOrder(ctx context.Context, userID int64) (domain.Order, error)
	AddItem(ctx context.Context, cred domain.Credential, orderID, productID int64, quantity int32) (domain.OrderItem, error)
	UpdateItem(ctx context.Context, cred domain.Credential, orderID, productID int64, quantity int32) (domain.Order, error)
	DeleteOrder(ctx context.Context, cred domain.Credential, orderID int64) error
	FinalizeOrder(ctx context.Context, cred domain.Credential, orderID int64, details domain.PaymentDetails) (string, error)
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	ListOrdersAfter(ctx context.Context, userID int64, ts time.Time) ([]domain.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
}

// OrdersHandler обслуживает REST API заказов.
type OrdersHandler struct {
	service OrderService
	logger  *log.Entry
}

// NewOrdersHandler создаёт HTTP-обработчик поверх сервиса заказов.
func NewOrdersHandler(service OrderService, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.WithField("component", "http-orders")
	}
	return &OrdersHandler{service: service, logger: logger}
}

// Register вешает маршруты на router.
func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/", h.listOrders)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Delete("/", h.deleteOrder)
			r.Post("/finalize", h.finalizeOrder)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.listItems)
				r.Post("/", h.addItem)
				r.Put("/{productID}", h.updateItem)
			})
		})
	})

	r.Get("/users/{userID}/orders", h.listUserOrders)
}

type createOrderRequest struct {
	UserID int64 `json:"user_id"`
}

type orderResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	OrderDate time.Time `json:"order_date"`
}

type itemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type itemResponse struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type finalizeRequest struct {
	Currency  string `json:"currency,omitempty"`
	Method    string `json:"method,omitempty"`
	Reference string `json:"reference,omitempty"`
}

type finalizeResponse struct {
	TransactionID string        `json:"transaction_id"`
	Order         orderResponse `json:"order"`
}

func toOrderResponse(order domain.Order) orderResponse {
	return orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		OrderDate: order.OrderDate,
	}
}

func toItemResponse(item domain.OrderItem) itemResponse {
	return itemResponse{
		ID:        item.ID,
		OrderID:   item.OrderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

// credentialFromRequest извлекает bearer-токен из заголовка Authorization.
func credentialFromRequest(r *http.Request) domain.Credential {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == header {
		token = ""
	}
	return domain.Credential{Token: token}
}

func parseIDParam(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrdersHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var (
		orders []domain.Order
		err    error
	)
	if after := r.URL.Query().Get("after"); after != "" {
		ts, parseErr := time.Parse(time.RFC3339, after)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid after timestamp, expected RFC3339")
			return
		}
		orders, err = h.service.ListOrdersAfter(r.Context(), userID, ts)
	} else {
		orders, err = h.service.ListOrdersByUser(r.Context(), userID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *OrdersHandler) listItems(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	items, err := h.service.GetOrderItems(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]itemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *OrdersHandler) addItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	item, err := h.service.AddItem(r.Context(), credentialFromRequest(r), orderID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *OrdersHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	productID, ok := parseIDParam(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.service.UpdateItem(r.Context(), credentialFromRequest(r), orderID, productID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.service.DeleteOrder(r.Context(), credentialFromRequest(r), orderID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) finalizeOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseIDParam(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req finalizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	details := domain.PaymentDetails{
		Currency:  req.Currency,
		Method:    req.Method,
		Reference: req.Reference,
	}

	txID, err := h.service.FinalizeOrder(r.Context(), credentialFromRequest(r), orderID, details)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Warn("failed to load order after finalize")
		writeJSON(w, http.StatusOK, finalizeResponse{TransactionID: txID})
		return
	}
	writeJSON(w, http.StatusOK, finalizeResponse{TransactionID: txID, Order: toOrderResponse(order)})
}
