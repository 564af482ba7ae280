package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mlindqvist/order-service/internal/domain"
)

// ProcessCall фиксирует один вызов ProcessPayment для проверок в тестах.
type ProcessCall struct {
	OrderID int64
	Details domain.PaymentDetails
}

// MockProcessor — конфигурируемая заглушка PaymentProcessor для тестов.
type MockProcessor struct {
	mu sync.Mutex

	TransactionID string
	Err           error

	Calls []ProcessCall
}

// NewMockProcessor возвращает mock с успешным сценарием по умолчанию.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{TransactionID: uuid.NewString()}
}

// ProcessPayment записывает вызов и возвращает настроенный результат.
func (m *MockProcessor) ProcessPayment(_ context.Context, _ domain.Credential, orderID int64, details domain.PaymentDetails) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, ProcessCall{OrderID: orderID, Details: details})
	if m.Err != nil {
		return "", m.Err
	}
	return m.TransactionID, nil
}

var _ domain.PaymentProcessor = (*MockProcessor)(nil)
