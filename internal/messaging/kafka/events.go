package kafka

import (
	"encoding/json"
	"time"
)

// TopicOrderEvents — topic по умолчанию для событий жизненного цикла заказов.
const TopicOrderEvents = "orders.lifecycle.events"

// EventEnvelope — формат сообщения в topic. EventType несёт значения
// словаря domain.Event* без преобразований, Payload — сырой JSON события
// из transactional outbox.
type EventEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}
