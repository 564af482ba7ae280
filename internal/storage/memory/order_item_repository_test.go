package memory

import (
	"errors"
	"testing"

	"github.com/mlindqvist/order-service/internal/domain"
)

func TestOrderItemRepository_CreateAndList(t *testing.T) {
	t.Parallel()

	repo := NewOrderItemRepository()

	first, err := repo.Create(domain.OrderItem{OrderID: 1, ProductID: 7, Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(domain.OrderItem{OrderID: 1, ProductID: 8, Quantity: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(domain.OrderItem{OrderID: 2, ProductID: 7, Quantity: 5}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := repo.ListByOrder(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("expected insertion ordering, got %+v", items)
	}
}

func TestOrderItemRepository_SaveAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewOrderItemRepository()

	item, err := repo.Create(domain.OrderItem{OrderID: 1, ProductID: 7, Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	item.Quantity = 5
	if err := repo.Save(item); err != nil {
		t.Fatalf("save: %v", err)
	}

	items, _ := repo.ListByOrder(1)
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected updated quantity, got %+v", items)
	}

	if err := repo.Delete(item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(item.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
	}
	if err := repo.Save(item); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on save of deleted item, got %v", err)
	}
}

func TestOrderItemRepository_DeleteByOrder(t *testing.T) {
	t.Parallel()

	repo := NewOrderItemRepository()

	_, _ = repo.Create(domain.OrderItem{OrderID: 1, ProductID: 7, Quantity: 3})
	_, _ = repo.Create(domain.OrderItem{OrderID: 1, ProductID: 8, Quantity: 1})
	kept, _ := repo.Create(domain.OrderItem{OrderID: 2, ProductID: 7, Quantity: 5})

	if err := repo.DeleteByOrder(1); err != nil {
		t.Fatalf("delete by order: %v", err)
	}

	gone, _ := repo.ListByOrder(1)
	if len(gone) != 0 {
		t.Fatalf("expected no items for order 1, got %+v", gone)
	}

	left, _ := repo.ListByOrder(2)
	if len(left) != 1 || left[0].ID != kept.ID {
		t.Fatalf("items of other orders must survive, got %+v", left)
	}
}
