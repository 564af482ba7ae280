package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/mlindqvist/order-service/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Client — HTTP-клиент шлюза резервирования (product service).
// Вызовы идут через circuit breaker; любой неуспех оборачивается в
// domain.ErrExternalService, хранилище вызывающей стороны не затрагивается.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	logger  *log.Entry
}

// NewClient создаёт клиент шлюза резервирования.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "reservation-client")
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0), // без автоматических retry, решает circuit breaker
		breaker: newBreaker("reservation-gateway", logger),
		baseURL: baseURL,
		logger:  logger,
	}
}

type productReservationDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

type reservationRequestDTO struct {
	OrderID             int64                   `json:"orderId"`
	ProductReservations []productReservationDTO `json:"productReservations"`
}

type reservationResponseDTO struct {
	ProductID int64  `json:"productId"`
	Quantity  int32  `json:"quantity"`
	Status    string `json:"status"`
}

// Reserve резервирует позиции под заказ.
func (c *Client) Reserve(ctx context.Context, cred domain.Credential, orderID int64, reservations []domain.ProductReservation) ([]domain.ReservationResult, error) {
	body := reservationRequestDTO{OrderID: orderID}
	for _, r := range reservations {
		body.ProductReservations = append(body.ProductReservations, productReservationDTO{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
		})
	}

	var results []reservationResponseDTO
	err := c.post(ctx, cred, c.baseURL+"/reservations", body, &results)
	if err != nil {
		c.logger.WithError(err).WithField("order_id", orderID).Error("failed to reserve products")
		return nil, domain.WrapExternal("reserve products", err)
	}

	out := make([]domain.ReservationResult, 0, len(results))
	for _, r := range results {
		out = append(out, domain.ReservationResult{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			Status:    domain.ReservationStatus(r.Status),
		})
	}
	return out, nil
}

// ConfirmAll подтверждает все резервы заказа.
func (c *Client) ConfirmAll(ctx context.Context, cred domain.Credential, orderID int64) error {
	url := fmt.Sprintf("%s/reservations/confirm/%d", c.baseURL, orderID)
	if err := c.post(ctx, cred, url, nil, nil); err != nil {
		c.logger.WithError(err).WithField("order_id", orderID).Error("failed to confirm reservations")
		return domain.WrapExternal("confirm reservations", err)
	}
	return nil
}

// CancelAll снимает все резервы заказа.
func (c *Client) CancelAll(ctx context.Context, cred domain.Credential, orderID int64) error {
	url := fmt.Sprintf("%s/reservations/cancel/%d", c.baseURL, orderID)
	if err := c.post(ctx, cred, url, nil, nil); err != nil {
		c.logger.WithError(err).WithField("order_id", orderID).Error("failed to cancel reservations")
		return domain.WrapExternal("cancel reservations", err)
	}
	return nil
}

// CancelPartial снимает qty единиц резерва по одной позиции заказа.
func (c *Client) CancelPartial(ctx context.Context, cred domain.Credential, orderID, productID int64, qty int32) error {
	url := fmt.Sprintf("%s/reservations/cancel/%d/product/%d/quantity/%d", c.baseURL, orderID, productID, qty)
	if err := c.post(ctx, cred, url, nil, nil); err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"order_id":   orderID,
			"product_id": productID,
			"qty":        qty,
		}).Error("failed to cancel product reservation")
		return domain.WrapExternal("cancel product reservation", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, cred domain.Credential, url string, body, result any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json")
		if cred.Token != "" {
			req.SetHeader("Authorization", "Bearer "+cred.Token)
		} else {
			c.logger.Warn("no credential token provided for gateway call")
		}
		if body != nil {
			req.SetBody(body)
		}
		if result != nil {
			req.SetResult(result)
		}

		resp, err := req.Post(url)
		if err != nil {
			return nil, fmt.Errorf("http error: %w", err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode(), resp.String())
		}
		return nil, nil
	})
	return err
}

func newBreaker(name string, logger *log.Entry) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
}

var _ domain.ReservationGateway = (*Client)(nil)
