package domain

// PaymentDetails описывает платёж, отправляемый платёжному провайдеру
// при финализации заказа. AmountMinor перезаписывается менеджером
// жизненного цикла рассчитанной суммой заказа.
type PaymentDetails struct {
	// AmountMinor — сумма в минимальных денежных единицах (öre).
	AmountMinor int64
	Currency    string
	// Method — способ оплаты у провайдера (например, "card").
	Method string
	// Reference — может быть пустым, если вызывающая сторона не передаёт ссылку.
	Reference string
}

// Validate проверяет корректность полей платежа и возвращает ошибки, если они есть.
func (p *PaymentDetails) Validate() []error {
	var errs []error

	if p.AmountMinor < 0 {
		errs = append(errs, ErrPaymentAmountNegative)
	}
	if p.Currency == "" {
		errs = append(errs, ErrPaymentCurrencyRequired)
	}

	return errs
}
