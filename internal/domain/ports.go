package domain

import (
	"context"
	"time"
)

// Credential — явный идентификационный контекст вызывающей стороны.
// Передаётся в каждый вызов коллаборатора вместо скрытого глобального
// security-контекста.
type Credential struct {
	// Token — bearer-токен, проброшенный из входящего запроса.
	Token string
}

// ReservationGateway описывает взаимодействие со шлюзом складских резервов.
// Любой неуспешный ответ или транспортная ошибка оборачивается в ErrExternalService.
type ReservationGateway interface {
	// Reserve пытается зарезервировать позиции под заказ.
	Reserve(ctx context.Context, cred Credential, orderID int64, reservations []ProductReservation) ([]ReservationResult, error)
	// ConfirmAll превращает все резервы заказа в подтверждённое списание.
	ConfirmAll(ctx context.Context, cred Credential, orderID int64) error
	// CancelAll снимает все резервы заказа.
	CancelAll(ctx context.Context, cred Credential, orderID int64) error
	// CancelPartial снимает qty единиц резерва по одной позиции.
	CancelPartial(ctx context.Context, cred Credential, orderID, productID int64, qty int32) error
}

// PaymentProcessor описывает взаимодействие с платёжным провайдером.
type PaymentProcessor interface {
	// ProcessPayment списывает сумму и возвращает идентификатор транзакции.
	ProcessPayment(ctx context.Context, cred Credential, orderID int64, details PaymentDetails) (string, error)
}

// Pricer рассчитывает сумму заказа по его позициям. Выделен в порт, чтобы
// плоскую заглушку можно было заменить реальным прайс-сервисом, не трогая
// логику жизненного цикла.
type Pricer interface {
	// Total возвращает сумму в минимальных единицах и код валюты.
	Total(items []OrderItem) (int64, string)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxStatus — состояние записи transactional outbox. Словарь общий
// для всех реализаций OutboxRepository.
type OutboxStatus string

const (
	// OutboxStatusPending — запись ждёт публикации.
	OutboxStatusPending OutboxStatus = "pending"
	// OutboxStatusSent — запись успешно опубликована.
	OutboxStatusSent OutboxStatus = "sent"
	// OutboxStatusFailed — публикация не удалась после всех попыток.
	OutboxStatusFailed OutboxStatus = "failed"
)

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
