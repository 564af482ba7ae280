package domain

import (
	"errors"
	"testing"
)

func TestOrderCompleted(t *testing.T) {
	t.Parallel()

	ongoing := Order{Status: OrderStatusOngoing}
	if ongoing.Completed() {
		t.Fatal("ongoing order must not be completed")
	}

	completed := Order{Status: OrderStatusCompleted}
	if !completed.Completed() {
		t.Fatal("completed order must report completed")
	}
}

func TestOrderValidate(t *testing.T) {
	t.Parallel()

	valid := Order{UserID: 42, Status: OrderStatusOngoing}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	invalid := Order{UserID: 0, Status: OrderStatus("unknown")}
	errs := invalid.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !containsError(errs, ErrUserRequired) {
		t.Fatal("expected ErrUserRequired")
	}
	if !containsError(errs, ErrStatusInvalid) {
		t.Fatal("expected ErrStatusInvalid")
	}
}

func TestOrderItemValidate(t *testing.T) {
	t.Parallel()

	valid := OrderItem{OrderID: 1, ProductID: 2, Quantity: 3}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	invalid := OrderItem{Quantity: 0}
	errs := invalid.Validate()
	if !containsError(errs, ErrOrderIDRequired) {
		t.Fatal("expected ErrOrderIDRequired")
	}
	if !containsError(errs, ErrProductIDRequired) {
		t.Fatal("expected ErrProductIDRequired")
	}
	if !containsError(errs, ErrItemQtyInvalid) {
		t.Fatal("expected ErrItemQtyInvalid")
	}
}

func containsError(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
