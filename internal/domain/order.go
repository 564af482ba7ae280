package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusOngoing — заказ открыт, позиции и резервы можно менять.
	OrderStatusOngoing OrderStatus = "ongoing"
	// OrderStatusCompleted — заказ финализирован; терминальный статус.
	OrderStatusCompleted OrderStatus = "completed"
)

// Order агрегирует состояние заказа. Позиции хранятся отдельно
// (см. OrderItemRepository) и умирают вместе с заказом.
type Order struct {
	// ID присваивается хранилищем при создании.
	ID int64
	// UserID — владелец заказа, неизменяем после создания.
	UserID int64
	// Status переходит только ongoing -> completed, и только при финализации.
	Status OrderStatus
	// OrderDate выставляется при создании и перезаписывается временем финализации.
	OrderDate time.Time
}

// Completed сообщает, находится ли заказ в терминальном статусе.
func (o *Order) Completed() bool {
	return o.Status == OrderStatusCompleted
}

// Validate проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) Validate() []error {
	var errs []error

	if o.UserID <= 0 {
		errs = append(errs, ErrUserRequired)
	}
	switch o.Status {
	case OrderStatusOngoing, OrderStatusCompleted:
	default:
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}

// OrderItem представляет одну позицию заказа. В рамках заказа допускается
// не более одной позиции на product_id; позиция с quantity <= 0 не хранится,
// вместо этого она удаляется.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
}

// Validate проверяет корректность ключевых полей позиции.
func (i *OrderItem) Validate() []error {
	var errs []error

	if i.OrderID <= 0 {
		errs = append(errs, ErrOrderIDRequired)
	}
	if i.ProductID <= 0 {
		errs = append(errs, ErrProductIDRequired)
	}
	if i.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}

	return errs
}
