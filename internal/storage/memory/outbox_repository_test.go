package memory

import (
	"errors"
	"testing"

	"github.com/mlindqvist/order-service/internal/domain"
)

func TestOutboxRepository_EnqueueAndPull(t *testing.T) {
	t.Parallel()

	repo := NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "1",
		EventType:     domain.EventOrderCreated,
		Payload:       []byte(`{"order_id":1}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated id")
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != msg.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 1 || stats.OldestPendingAt.IsZero() {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	t.Parallel()

	repo := NewOutboxRepository()

	msg, _ := repo.Enqueue(domain.OutboxMessage{EventType: domain.EventOrderCreated})
	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("expected empty pending set, got %+v", pending)
	}

	stats, _ := repo.Stats()
	if stats.PendingCount != 0 {
		t.Fatalf("expected zero pending, got %d", stats.PendingCount)
	}
}

func TestOutboxRepository_MarkUnknownID(t *testing.T) {
	t.Parallel()

	repo := NewOutboxRepository()

	if err := repo.MarkSent("missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected ErrOutboxPublish, got %v", err)
	}
	if err := repo.MarkFailed("missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected ErrOutboxPublish, got %v", err)
	}
}

func TestOutboxRepository_ConstructorReturnsDomainInterface(t *testing.T) {
	t.Parallel()

	var repo domain.OutboxRepository = NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{EventType: domain.EventOrderCreated})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := repo.MarkFailed(msg.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, _ := repo.PullPending(10)
	if len(pending) != 0 {
		t.Fatalf("failed message must leave pending set, got %+v", pending)
	}
}

func TestOutboxRepository_PullPendingLimit(t *testing.T) {
	t.Parallel()

	repo := NewOutboxRepository()
	for i := 0; i < 5; i++ {
		_, _ = repo.Enqueue(domain.OutboxMessage{EventType: domain.EventOrderCreated})
	}

	pending, err := repo.PullPending(2)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pending))
	}
}
