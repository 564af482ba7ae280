package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ и возвращает его с присвоенным ID.
	Create(order Order) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id int64) (Order, error)
	// Exists сообщает, существует ли заказ с данным идентификатором.
	Exists(id int64) (bool, error)
	// Save применяет обновления к существующему заказу.
	Save(order Order) error
	// Delete удаляет заказ. Отсутствующий заказ — не ошибка.
	Delete(id int64) error
	// List возвращает все заказы.
	List() ([]Order, error)
	// ListByUser возвращает заказы пользователя.
	ListByUser(userID int64) ([]Order, error)
	// ListByUserAfter возвращает заказы пользователя с датой строго позже ts.
	ListByUserAfter(userID int64, ts time.Time) ([]Order, error)
}

// OrderItemRepository описывает хранилище позиций заказа.
type OrderItemRepository interface {
	// Create сохраняет новую позицию и возвращает её с присвоенным ID.
	Create(item OrderItem) (OrderItem, error)
	// Save применяет обновления к существующей позиции.
	Save(item OrderItem) error
	// Delete удаляет позицию по идентификатору.
	Delete(id int64) error
	// DeleteByOrder удаляет все позиции заказа.
	DeleteByOrder(orderID int64) error
	// ListByOrder возвращает позиции заказа; пустой список, если их нет.
	ListByOrder(orderID int64) ([]OrderItem, error)
}
