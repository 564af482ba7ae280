package lifecycle

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mlindqvist/order-service/internal/domain"
	"github.com/mlindqvist/order-service/internal/metrics"
)

const (
	opAddItem     = "add_item"
	opUpdateItem  = "update_item"
	opDeleteOrder = "delete_order"
	opFinalize    = "finalize_order"

	gatewayOpReserve       = "reserve"
	gatewayOpConfirmAll    = "confirm_all"
	gatewayOpCancelAll     = "cancel_all"
	gatewayOpCancelPartial = "cancel_partial"
)

// Manager оркестрирует жизненный цикл заказа: мутации позиций, согласование
// резервов со шлюзом, расчёт суммы и терминальный переход при финализации.
// Локальная запись выполняется только после успешного удалённого вызова,
// поэтому сбой шлюза оставляет хранилище нетронутым. Обратное окно
// (успешный удалённый вызов, сбой локальной записи) не компенсируется.
type Manager struct {
	orders       domain.OrderRepository
	items        domain.OrderItemRepository
	reservations domain.ReservationGateway
	payments     domain.PaymentProcessor
	pricer       domain.Pricer
	outbox       domain.OutboxRepository
	logger       *log.Entry
	metrics      *metrics.LifecycleMetrics
}

// NewManager создаёт рабочий экземпляр менеджера жизненного цикла.
func NewManager(
	orders domain.OrderRepository,
	items domain.OrderItemRepository,
	reservations domain.ReservationGateway,
	payments domain.PaymentProcessor,
	pricer domain.Pricer,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Manager {
	m := newManager(orders, items, reservations, payments, pricer, outbox, logger)
	m.metrics = metrics.NewLifecycleMetrics()
	return m
}

// NewManagerWithoutMetrics создаёт менеджер без метрик (для тестов).
func NewManagerWithoutMetrics(
	orders domain.OrderRepository,
	items domain.OrderItemRepository,
	reservations domain.ReservationGateway,
	payments domain.PaymentProcessor,
	pricer domain.Pricer,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Manager {
	return newManager(orders, items, reservations, payments, pricer, outbox, logger)
}

func newManager(
	orders domain.OrderRepository,
	items domain.OrderItemRepository,
	reservations domain.ReservationGateway,
	payments domain.PaymentProcessor,
	pricer domain.Pricer,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Manager {
	if logger == nil {
		logger = log.New().WithField("component", "lifecycle")
	}
	return &Manager{
		orders:       orders,
		items:        items,
		reservations: reservations,
		payments:     payments,
		pricer:       pricer,
		outbox:       outbox,
		logger:       logger,
	}
}

// CreateOrder создаёт заказ в статусе ongoing без позиций. Резервы не затрагиваются.
func (m *Manager) CreateOrder(_ context.Context, userID int64) (domain.Order, error) {
	order := domain.Order{
		UserID:    userID,
		Status:    domain.OrderStatusOngoing,
		OrderDate: time.Now().UTC(),
	}
	if errs := order.Validate(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	created, err := m.orders.Create(order)
	if err != nil {
		m.logger.WithError(err).Error("failed to create order")
		return domain.Order{}, err
	}

	m.logger.WithFields(log.Fields{
		"order_id": created.ID,
		"user_id":  created.UserID,
	}).Info("order created")

	if m.metrics != nil {
		m.metrics.RecordOrderCreated()
	}
	m.emitEvent(created.ID, domain.EventOrderCreated, map[string]any{
		"user_id": created.UserID,
	})

	return created, nil
}

// AddItem резервирует quantity единиц продукта под заказ и затем создаёт
// позицию либо увеличивает количество существующей. Сбой резервирования
// не оставляет частично созданной позиции.
func (m *Manager) AddItem(ctx context.Context, cred domain.Credential, orderID, productID int64, quantity int32) (domain.OrderItem, error) {
	start := time.Now()
	defer m.observe(opAddItem, start)

	order, err := m.loadMutable(orderID, opAddItem)
	if err != nil {
		return domain.OrderItem{}, err
	}

	items, err := m.items.ListByOrder(order.ID)
	if err != nil {
		return domain.OrderItem{}, err
	}

	reservations := []domain.ProductReservation{{ProductID: productID, Quantity: quantity}}
	_, err = m.reservations.Reserve(ctx, cred, order.ID, reservations)
	if m.metrics != nil {
		m.metrics.RecordReservationCall(gatewayOpReserve, err)
	}
	if err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"product_id": productID,
			"qty":        quantity,
		}).Warn("reservation failed, store left untouched")
		return domain.OrderItem{}, err
	}

	for _, item := range items {
		if item.ProductID != productID {
			continue
		}

		m.logger.WithFields(log.Fields{
			"order_id":   order.ID,
			"product_id": productID,
			"qty_old":    item.Quantity,
			"qty_new":    item.Quantity + quantity,
		}).Info("product already in order, incrementing quantity")

		item.Quantity += quantity
		if err := m.items.Save(item); err != nil {
			return domain.OrderItem{}, err
		}
		if m.metrics != nil {
			m.metrics.RecordItemMutation("add")
		}
		m.emitItemEvent(order.ID, domain.EventItemAdded, productID, item.Quantity)
		return item, nil
	}

	created, err := m.items.Create(domain.OrderItem{
		OrderID:   order.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return domain.OrderItem{}, err
	}

	m.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"product_id": productID,
		"qty":        quantity,
	}).Info("product added to order")

	if m.metrics != nil {
		m.metrics.RecordItemMutation("add")
	}
	m.emitItemEvent(order.ID, domain.EventItemAdded, productID, quantity)

	return created, nil
}

// UpdateItem выставляет позиции новое количество, согласуя разницу со шлюзом:
// положительная разница докупает резерв, отрицательная частично снимает его.
// quantity <= 0 трактуется как полное удаление позиции.
func (m *Manager) UpdateItem(ctx context.Context, cred domain.Credential, orderID, productID int64, quantity int32) (domain.Order, error) {
	start := time.Now()
	defer m.observe(opUpdateItem, start)

	order, err := m.loadMutable(orderID, opUpdateItem)
	if err != nil {
		return domain.Order{}, err
	}

	items, err := m.items.ListByOrder(order.ID)
	if err != nil {
		return domain.Order{}, err
	}

	if quantity > 0 {
		for _, item := range items {
			if item.ProductID != productID {
				continue
			}

			diff := quantity - item.Quantity
			switch {
			case diff > 0:
				reservations := []domain.ProductReservation{{ProductID: productID, Quantity: diff}}
				_, err = m.reservations.Reserve(ctx, cred, order.ID, reservations)
				if m.metrics != nil {
					m.metrics.RecordReservationCall(gatewayOpReserve, err)
				}
			case diff < 0:
				err = m.reservations.CancelPartial(ctx, cred, order.ID, productID, -diff)
				if m.metrics != nil {
					m.metrics.RecordReservationCall(gatewayOpCancelPartial, err)
				}
			}
			if err != nil {
				m.logger.WithError(err).WithFields(log.Fields{
					"order_id":   order.ID,
					"product_id": productID,
					"diff":       diff,
				}).Warn("reservation adjustment failed")
				return domain.Order{}, err
			}

			item.Quantity = quantity
			if err := m.items.Save(item); err != nil {
				return domain.Order{}, err
			}
			if m.metrics != nil {
				m.metrics.RecordItemMutation("update")
			}
			m.emitItemEvent(order.ID, domain.EventItemUpdated, productID, quantity)
			return order, nil
		}

		// Продукта ещё нет в заказе: свежий резерв на полное количество.
		if _, err := m.AddItem(ctx, cred, orderID, productID, quantity); err != nil {
			return domain.Order{}, err
		}
		return order, nil
	}

	// quantity <= 0: снимаем резерв целиком и удаляем позицию.
	for _, item := range items {
		if item.ProductID != productID {
			continue
		}

		err := m.reservations.CancelPartial(ctx, cred, order.ID, productID, item.Quantity)
		if m.metrics != nil {
			m.metrics.RecordReservationCall(gatewayOpCancelPartial, err)
		}
		if err != nil {
			m.logger.WithError(err).WithFields(log.Fields{
				"order_id":   order.ID,
				"product_id": productID,
			}).Warn("reservation cancellation failed")
			return domain.Order{}, err
		}

		if err := m.items.Delete(item.ID); err != nil {
			return domain.Order{}, err
		}

		m.logger.WithFields(log.Fields{
			"order_id":   order.ID,
			"product_id": productID,
		}).Info("order item removed")

		if m.metrics != nil {
			m.metrics.RecordItemMutation("remove")
		}
		m.emitItemEvent(order.ID, domain.EventItemRemoved, productID, 0)
		break
	}

	return order, nil
}

// DeleteOrder снимает все резервы заказа, затем удаляет позиции и сам заказ.
// Отсутствующий заказ — no-op. Сбой шлюза оставляет локальное состояние целым.
func (m *Manager) DeleteOrder(ctx context.Context, cred domain.Credential, orderID int64) error {
	start := time.Now()
	defer m.observe(opDeleteOrder, start)

	exists, err := m.orders.Exists(orderID)
	if err != nil {
		return err
	}
	if !exists {
		m.logger.WithField("order_id", orderID).Warn("no order to delete")
		return nil
	}

	order, err := m.orders.Get(orderID)
	if err != nil {
		return err
	}
	if order.Completed() {
		return domain.ErrOrderCompleted
	}

	err = m.reservations.CancelAll(ctx, cred, order.ID)
	if m.metrics != nil {
		m.metrics.RecordReservationCall(gatewayOpCancelAll, err)
	}
	if err != nil {
		m.logger.WithError(err).WithField("order_id", order.ID).Warn("cancel reservations failed, order kept")
		return err
	}

	if err := m.items.DeleteByOrder(order.ID); err != nil {
		return err
	}
	if err := m.orders.Delete(order.ID); err != nil {
		return err
	}

	m.logger.WithField("order_id", order.ID).Info("order deleted")

	if m.metrics != nil {
		m.metrics.RecordOrderDeleted()
	}
	m.emitEvent(order.ID, domain.EventOrderDeleted, map[string]any{
		"user_id": order.UserID,
	})

	return nil
}

// FinalizeOrder подтверждает резервы, рассчитывает сумму, проводит платёж и
// переводит заказ в completed. Возвращает идентификатор платёжной транзакции.
// Если платёж падает после подтверждения резервов, заказ остаётся ongoing,
// а резервы уже подтверждены — известное окно несогласованности.
func (m *Manager) FinalizeOrder(ctx context.Context, cred domain.Credential, orderID int64, details domain.PaymentDetails) (string, error) {
	start := time.Now()
	defer m.observe(opFinalize, start)

	order, err := m.loadMutable(orderID, opFinalize)
	if err != nil {
		return "", err
	}

	err = m.reservations.ConfirmAll(ctx, cred, order.ID)
	if m.metrics != nil {
		m.metrics.RecordReservationCall(gatewayOpConfirmAll, err)
	}
	if err != nil {
		m.logger.WithError(err).WithField("order_id", order.ID).Warn("confirm reservations failed, payment skipped")
		return "", err
	}

	items, err := m.items.ListByOrder(order.ID)
	if err != nil {
		return "", err
	}

	total, currency := m.pricer.Total(items)
	details.AmountMinor = total
	if details.Currency == "" {
		details.Currency = currency
	}
	if errs := details.Validate(); len(errs) > 0 {
		return "", errs[0]
	}

	transactionID, err := m.payments.ProcessPayment(ctx, cred, order.ID, details)
	if m.metrics != nil {
		m.metrics.RecordPaymentCall(err)
	}
	if err != nil {
		m.logger.WithError(err).WithField("order_id", order.ID).Error("payment failed after reservations were confirmed")
		return "", err
	}

	order.Status = domain.OrderStatusCompleted
	order.OrderDate = time.Now().UTC()
	if err := m.orders.Save(order); err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id":       order.ID,
			"transaction_id": transactionID,
		}).Error("failed to persist completed order after successful payment")
		return "", err
	}

	m.logger.WithFields(log.Fields{
		"order_id":       order.ID,
		"transaction_id": transactionID,
		"amount_minor":   total,
	}).Info("order finalized")

	if m.metrics != nil {
		m.metrics.RecordOrderFinalized()
	}
	m.emitEvent(order.ID, domain.EventOrderCompleted, map[string]any{
		"transaction_id": transactionID,
		"amount_minor":   total,
		"currency":       details.Currency,
	})

	return transactionID, nil
}

// GetOrder возвращает заказ или ErrOrderNotFound.
func (m *Manager) GetOrder(_ context.Context, orderID int64) (domain.Order, error) {
	return m.orders.Get(orderID)
}

// ListOrders возвращает все заказы.
func (m *Manager) ListOrders(_ context.Context) ([]domain.Order, error) {
	return m.orders.List()
}

// ListOrdersByUser возвращает заказы пользователя.
func (m *Manager) ListOrdersByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	return m.orders.ListByUser(userID)
}

// ListOrdersAfter возвращает заказы пользователя с датой строго позже ts.
func (m *Manager) ListOrdersAfter(_ context.Context, userID int64, ts time.Time) ([]domain.Order, error) {
	return m.orders.ListByUserAfter(userID, ts)
}

// GetOrderItems возвращает позиции заказа; пустой список, если их нет.
func (m *Manager) GetOrderItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	return m.items.ListByOrder(orderID)
}

// loadMutable загружает заказ и проверяет, что он не финализирован.
func (m *Manager) loadMutable(orderID int64, operation string) (domain.Order, error) {
	order, err := m.orders.Get(orderID)
	if err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  orderID,
		}).Warn("failed to load order")
		return domain.Order{}, err
	}
	if order.Completed() {
		return domain.Order{}, domain.ErrOrderCompleted
	}
	return order, nil
}

func (m *Manager) observe(op string, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordOperationDuration(op, time.Since(start))
	}
}

func (m *Manager) emitItemEvent(orderID int64, eventType string, productID int64, quantity int32) {
	m.emitEvent(orderID, eventType, map[string]any{
		"product_id": productID,
		"qty":        quantity,
	})
}

func (m *Manager) emitEvent(orderID int64, eventType string, payload map[string]any) {
	if m.outbox == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["order_id"] = orderID
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Error("marshal event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   formatOrderID(orderID),
		EventType:     eventType,
		Payload:       data,
	}
	if _, err := m.outbox.Enqueue(msg); err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Error("enqueue event failed")
		return
	}
	if m.metrics != nil {
		m.metrics.RecordOutboxEvent()
	}
}

func formatOrderID(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
