package services

import (
	"errors"
	"fmt"

	"tableside/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrTableNotFound = errors.New("table not found")
	ErrGuestNotFound = errors.New("guest not found")
	ErrDishNotFound  = errors.New("dish not found")

	// ErrChecksumInvalid means the webhook payload failed its authenticity
	// check. The response must never include the expected digest.
	ErrChecksumInvalid = errors.New("invalid checksum")

	// ErrMalformedPayload means the webhook payload had the wrong shape
	// (bad orderIds, missing fields, non-numeric elements).
	ErrMalformedPayload = errors.New("malformed payload")

	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// InvalidTransitionError reports an illegal status edge. The attempted
// from/to pair is carried so callers can render a precise message.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// DuplicateKeyError is a field-scoped uniqueness violation, e.g. creating a
// table whose number already exists.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}
