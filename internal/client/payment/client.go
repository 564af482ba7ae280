package payment

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

// Client — HTTP-клиент платёжного провайдера.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	logger  *log.Entry
}

// NewClient создаёт клиент платёжного провайдера.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = log.WithField("component", "payment-client")
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "payment-processor",
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
		}),
		baseURL: baseURL,
		logger:  logger,
	}
}

type paymentRequestDTO struct {
	OrderID     int64  `json:"orderId"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
	Method      string `json:"method,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

type paymentResponseDTO struct {
	TransactionID string `json:"transactionId"`
}

// ProcessPayment списывает сумму и возвращает идентификатор транзакции.
func (c *Client) ProcessPayment(ctx context.Context, cred domain.Credential, orderID int64, details domain.PaymentDetails) (string, error) {
	body := paymentRequestDTO{
		OrderID:     orderID,
		AmountMinor: details.AmountMinor,
		Currency:    details.Currency,
		Method:      details.Method,
		Reference:   details.Reference,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out paymentResponseDTO
		req := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			SetResult(&out)
		if cred.Token != "" {
			req.SetHeader("Authorization", "Bearer "+cred.Token)
		} else {
			c.logger.Warn("no credential token provided for payment call")
		}

		resp, err := req.Post(c.baseURL + "/payments")
		if err != nil {
			return nil, fmt.Errorf("http error: %w", err)
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("payment processor returned status %d: %s", resp.StatusCode(), resp.String())
		}
		if out.TransactionID == "" {
			return nil, fmt.Errorf("payment processor returned empty transaction id")
		}
		return out.TransactionID, nil
	})
	if err != nil {
		c.logger.WithError(err).WithField("order_id", orderID).Error("failed to process payment")
		return "", domain.WrapExternal("process payment", err)
	}

	return result.(string), nil
}

var _ domain.PaymentProcessor = (*Client)(nil)
