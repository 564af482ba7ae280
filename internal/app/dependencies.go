package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/mlindqvist/order-service/internal/client/payment"
	"github.com/mlindqvist/order-service/internal/client/reservation"
	"github.com/mlindqvist/order-service/internal/domain"
	"github.com/mlindqvist/order-service/internal/service/lifecycle"
	"github.com/mlindqvist/order-service/internal/service/pricing"
	"github.com/mlindqvist/order-service/internal/storage/memory"
	"github.com/mlindqvist/order-service/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders       domain.OrderRepository
	Items        domain.OrderItemRepository
	OutboxRepo   domain.OutboxRepository
	Reservations domain.ReservationGateway
	Payments     domain.PaymentProcessor
	Pricer       domain.Pricer
	Manager      *lifecycle.Manager
	Store        *postgres.Store
	Logger       *log.Entry
}

// NewDependencies собирает зависимости по конфигурации: PostgreSQL при
// заданном DSN, иначе in-memory; реальные клиенты резервов и платежей при
// заданных базовых URL, иначе mock-реализации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.Store = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Items = postgres.NewOrderItemRepository(store)
		deps.OutboxRepo = postgres.NewOutboxRepository(store)
		logger.Info("using postgres storage")
	} else {
		deps.Orders = memory.NewOrderRepository()
		deps.Items = memory.NewOrderItemRepository()
		deps.OutboxRepo = memory.NewOutboxRepository()
		logger.Info("using in-memory storage")
	}

	if cfg.ReservationBaseURL != "" {
		deps.Reservations = reservation.NewClient(cfg.ReservationBaseURL, cfg.ExternalTimeout, logger.WithField("client", "reservation"))
	} else {
		deps.Reservations = reservation.NewMockGateway()
		logger.Warn("reservation base url is empty, using mock gateway")
	}

	if cfg.PaymentBaseURL != "" {
		deps.Payments = payment.NewClient(cfg.PaymentBaseURL, cfg.ExternalTimeout, logger.WithField("client", "payment"))
	} else {
		deps.Payments = payment.NewMockProcessor()
		logger.Warn("payment base url is empty, using mock processor")
	}

	deps.Pricer = pricing.NewFlatPricer(cfg.UnitPriceMinor, cfg.PriceCurrency)
	deps.Manager = lifecycle.NewManager(
		deps.Orders,
		deps.Items,
		deps.Reservations,
		deps.Payments,
		deps.Pricer,
		deps.OutboxRepo,
		logger.WithField("component", "lifecycle"),
	)

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d == nil {
		return
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
