package domain

import (
	"errors"
	"testing"
)

func TestWrapExternal(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := WrapExternal("reserve products", cause)

	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("expected ErrExternalService in chain, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain, got %v", err)
	}
	if !IsExternal(err) {
		t.Fatal("IsExternal must report wrapped external errors")
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	if !IsNotFound(ErrOrderNotFound) {
		t.Fatal("IsNotFound must match ErrOrderNotFound")
	}
	if IsNotFound(ErrOrderCompleted) {
		t.Fatal("IsNotFound must not match other errors")
	}
	if !IsCompleted(ErrOrderCompleted) {
		t.Fatal("IsCompleted must match ErrOrderCompleted")
	}
	if IsExternal(errors.New("plain")) {
		t.Fatal("IsExternal must not match unrelated errors")
	}
}
