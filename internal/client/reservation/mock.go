package reservation

import (
	"context"
	"sync"

	"github.com/mlindqvist/order-service/internal/domain"
)

// ReserveCall фиксирует один вызов Reserve для проверок в тестах.
type ReserveCall struct {
	OrderID      int64
	Reservations []domain.ProductReservation
}

// CancelPartialCall фиксирует один вызов CancelPartial.
type CancelPartialCall struct {
	OrderID   int64
	ProductID int64
	Quantity  int32
}

// MockGateway — конфигурируемая заглушка ReservationGateway для тестов.
// Записывает каждый вызов вместе с количествами.
type MockGateway struct {
	mu sync.Mutex

	ReserveErr       error
	ConfirmErr       error
	CancelAllErr     error
	CancelPartialErr error

	ReserveCalls       []ReserveCall
	ConfirmCalls       []int64
	CancelAllCalls     []int64
	CancelPartialCalls []CancelPartialCall
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Reserve записывает вызов и возвращает настроенную ошибку.
func (m *MockGateway) Reserve(_ context.Context, _ domain.Credential, orderID int64, reservations []domain.ProductReservation) ([]domain.ReservationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReserveCalls = append(m.ReserveCalls, ReserveCall{
		OrderID:      orderID,
		Reservations: append([]domain.ProductReservation(nil), reservations...),
	})
	if m.ReserveErr != nil {
		return nil, m.ReserveErr
	}

	results := make([]domain.ReservationResult, 0, len(reservations))
	for _, r := range reservations {
		results = append(results, domain.ReservationResult{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Status:    domain.ReservationStatusReserved,
		})
	}
	return results, nil
}

// ConfirmAll записывает вызов и возвращает настроенную ошибку.
func (m *MockGateway) ConfirmAll(_ context.Context, _ domain.Credential, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ConfirmCalls = append(m.ConfirmCalls, orderID)
	return m.ConfirmErr
}

// CancelAll записывает вызов и возвращает настроенную ошибку.
func (m *MockGateway) CancelAll(_ context.Context, _ domain.Credential, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CancelAllCalls = append(m.CancelAllCalls, orderID)
	return m.CancelAllErr
}

// CancelPartial записывает вызов и возвращает настроенную ошибку.
func (m *MockGateway) CancelPartial(_ context.Context, _ domain.Credential, orderID, productID int64, qty int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CancelPartialCalls = append(m.CancelPartialCalls, CancelPartialCall{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  qty,
	})
	return m.CancelPartialErr
}

var _ domain.ReservationGateway = (*MockGateway)(nil)
