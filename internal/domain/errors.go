package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCompleted — попытка изменить заказ в терминальном статусе.
	ErrOrderCompleted = errors.New("order is completed and can not be changed or cancelled")
	// ErrExternalService — сбой удалённого коллаборатора (резервы/платежи).
	ErrExternalService = errors.New("external service failure")
	// ErrItemNotFound возвращается, если позиция заказа не найдена.
	ErrItemNotFound = errors.New("order item not found")
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибка отсутствующего идентификатора продукта.
	ErrProductIDRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка при неподдерживаемом статусе заказа.
	ErrStatusInvalid = errors.New("order status is invalid")
	// Ошибка отрицательной суммы платежа.
	ErrPaymentAmountNegative = errors.New("payment amount must be non-negative")
	// Ошибка отсутствующего кода валюты платежа.
	ErrPaymentCurrencyRequired = errors.New("payment currency is required")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// WrapExternal оборачивает причину сбоя коллаборатора в ErrExternalService,
// сохраняя цепочку для errors.Is/errors.As.
func WrapExternal(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalService, op, cause)
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsCompleted проверяет, является ли ошибка нарушением терминального статуса.
func IsCompleted(err error) bool {
	return errors.Is(err, ErrOrderCompleted)
}

// IsExternal проверяет, является ли ошибка сбоем удалённого сервиса.
func IsExternal(err error) bool {
	return errors.Is(err, ErrExternalService)
}
