package pricing

import "github.com/mlindqvist/order-service/internal/domain"

const (
	// DefaultUnitPriceMinor — фиксированная цена за единицу (100.00 SEK в эре).
	// Заглушка вместо реального прайс-сервиса.
	DefaultUnitPriceMinor int64 = 10000
	// DefaultCurrency — валюта по умолчанию.
	DefaultCurrency = "SEK"
)

// FlatPricer считает сумму заказа по фиксированной цене за единицу.
// Реализует domain.Pricer, чтобы замена на реальный прайс-сервис не
// затрагивала менеджер жизненного цикла.
type FlatPricer struct {
	unitPriceMinor int64
	currency       string
}

// NewFlatPricer создаёт pricer с заданной ценой за единицу и валютой.
// Нулевые значения заменяются значениями по умолчанию.
func NewFlatPricer(unitPriceMinor int64, currency string) *FlatPricer {
	if unitPriceMinor <= 0 {
		unitPriceMinor = DefaultUnitPriceMinor
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &FlatPricer{
		unitPriceMinor: unitPriceMinor,
		currency:       currency,
	}
}

// Total возвращает цена-за-единицу * суммарное количество по всем позициям.
func (p *FlatPricer) Total(items []domain.OrderItem) (int64, string) {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * p.unitPriceMinor
	}
	return total, p.currency
}

var _ domain.Pricer = (*FlatPricer)(nil)
