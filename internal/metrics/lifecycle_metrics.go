package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics содержит метрики операций жизненного цикла заказа.
type LifecycleMetrics struct {
	// Счётчики операций
	ordersCreated   prometheus.Counter
	ordersDeleted   prometheus.Counter
	ordersFinalized prometheus.Counter
	itemMutations   *prometheus.CounterVec

	// Вызовы удалённых коллабораторов
	reservationCalls *prometheus.CounterVec
	paymentCalls     *prometheus.CounterVec

	// Гистограмма времени выполнения операций
	opDuration *prometheus.HistogramVec

	// Счётчик событий outbox
	outboxEvents prometheus.Counter
}

// NewLifecycleMetrics создаёт новый экземпляр метрик жизненного цикла.
func NewLifecycleMetrics() *LifecycleMetrics {
	return newLifecycleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLifecycleMetricsWithRegisterer(registerer prometheus.Registerer) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LifecycleMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		ordersFinalized: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_finalized_total",
			Help: "Total number of orders finalized",
		}),
		itemMutations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_item_mutations_total",
			Help: "Total number of order item mutations grouped by operation",
		}, []string{"op"}),
		reservationCalls: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_reservation_calls_total",
			Help: "Total number of reservation gateway calls grouped by operation and result",
		}, []string{"op", "result"}),
		paymentCalls: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_payment_calls_total",
			Help: "Total number of payment processor calls grouped by result",
		}, []string{"result"}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_lifecycle_op_duration_seconds",
			Help:    "Duration of lifecycle operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"op"}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_outbox_events_total",
			Help: "Total number of lifecycle events enqueued to the outbox",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *LifecycleMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *LifecycleMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordOrderFinalized увеличивает счётчик финализированных заказов.
func (m *LifecycleMetrics) RecordOrderFinalized() {
	m.ordersFinalized.Inc()
}

// RecordItemMutation увеличивает счётчик мутаций позиций (add/update/remove).
func (m *LifecycleMetrics) RecordItemMutation(op string) {
	m.itemMutations.WithLabelValues(op).Inc()
}

// RecordReservationCall фиксирует вызов шлюза резервирования.
func (m *LifecycleMetrics) RecordReservationCall(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reservationCalls.WithLabelValues(op, result).Inc()
}

// RecordPaymentCall фиксирует вызов платёжного провайдера.
func (m *LifecycleMetrics) RecordPaymentCall(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.paymentCalls.WithLabelValues(result).Inc()
}

// RecordOperationDuration записывает время выполнения операции жизненного цикла.
func (m *LifecycleMetrics) RecordOperationDuration(op string, duration time.Duration) {
	m.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *LifecycleMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
