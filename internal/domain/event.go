package domain

// Словарь типов событий жизненного цикла заказа. Менеджер кладёт эти
// значения в OutboxMessage.EventType, Kafka-паблишер переносит их во
// внешний envelope без преобразований — один словарь на весь конвейер.
const (
	EventOrderCreated   = "order.created"
	EventOrderDeleted   = "order.deleted"
	EventOrderCompleted = "order.completed"

	EventItemAdded   = "order.item_added"
	EventItemUpdated = "order.item_updated"
	EventItemRemoved = "order.item_removed"
)
