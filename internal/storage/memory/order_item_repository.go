package memory

import (
	"sort"
	"sync"

	"github.com/mlindqvist/order-service/internal/domain"
)

// orderItemRepositoryInMemory — in-memory реализация OrderItemRepository.
type orderItemRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.OrderItem
}

// NewOrderItemRepository возвращает in-memory репозиторий позиций заказа.
func NewOrderItemRepository() domain.OrderItemRepository {
	return &orderItemRepositoryInMemory{
		nextID: 1,
		items:  make(map[int64]domain.OrderItem),
	}
}

// Create сохраняет новую позицию и присваивает ей идентификатор.
func (r *orderItemRepositoryInMemory) Create(item domain.OrderItem) (domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return item, nil
}

// Save перезаписывает существующую позицию.
func (r *orderItemRepositoryInMemory) Save(item domain.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

// Delete удаляет позицию по идентификатору.
func (r *orderItemRepositoryInMemory) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// DeleteByOrder удаляет все позиции заказа.
func (r *orderItemRepositoryInMemory) DeleteByOrder(orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.OrderID == orderID {
			delete(r.items, id)
		}
	}
	return nil
}

// ListByOrder возвращает позиции заказа в порядке добавления.
func (r *orderItemRepositoryInMemory) ListByOrder(orderID int64) ([]domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OrderItem, 0)
	for _, item := range r.items {
		if item.OrderID == orderID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

var _ domain.OrderItemRepository = (*orderItemRepositoryInMemory)(nil)
