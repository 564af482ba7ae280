package domain

// ReservationStatus отражает статус резервирования товара на складе.
type ReservationStatus string

const (
	// ReservationStatusReserved — товар успешно зарезервирован.
	ReservationStatusReserved ReservationStatus = "reserved"
	// ReservationStatusConfirmed — резерв подтверждён и превращён в списание.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	// ReservationStatusCancelled — резерв снят полностью или частично.
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ProductReservation описывает запрос на резерв одной позиции под заказ.
type ProductReservation struct {
	ProductID int64
	Quantity  int32
}

// ReservationResult — ответ шлюза резервирования по одной позиции.
type ReservationResult struct {
	ProductID int64
	Quantity  int32
	Status    ReservationStatus
}

// Validate проверяет, корректно ли заполнен запрос на резерв.
func (r *ProductReservation) Validate() []error {
	var errs []error

	if r.ProductID <= 0 {
		errs = append(errs, ErrProductIDRequired)
	}
	if r.Quantity <= 0 {
		errs = append(errs, ErrItemQtyInvalid)
	}

	return errs
}
