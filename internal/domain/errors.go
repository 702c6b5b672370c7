package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned across a component boundary is classifiable
// into exactly one of these with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrPaymentGateway    = errors.New("payment gateway error")
	ErrDatabase          = errors.New("database error")
	ErrUnexpected        = errors.New("unexpected error")
)

var (
	ErrEmptyCart          = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrProductUnavailable = fmt.Errorf("product unavailable: %w", ErrValidation)
	ErrInvalidState       = fmt.Errorf("invalid state: %w", ErrConflict)
	ErrDuplicateCartLine  = fmt.Errorf("product already in cart: %w", ErrConflict)
	ErrOrderNotFound      = fmt.Errorf("order: %w", ErrNotFound)
	ErrPaymentNotFound    = fmt.Errorf("payment: %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("product: %w", ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("customer: %w", ErrNotFound)
	ErrCartLineNotFound   = fmt.Errorf("cart line: %w", ErrNotFound)
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindInvalidSignature  ErrorKind = "invalid_signature"
	KindPaymentGateway    ErrorKind = "payment_gateway"
	KindDatabase          ErrorKind = "database"
	KindUnexpected        ErrorKind = "unexpected"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrConflict, KindConflict},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrInvalidSignature, KindInvalidSignature},
	{ErrPaymentGateway, KindPaymentGateway},
	{ErrDatabase, KindDatabase},
}

// KindOf classifies err. Anything outside the taxonomy is KindUnexpected.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnexpected
}

// IsClassified reports whether err already carries a taxonomy kind.
func IsClassified(err error) bool {
	return KindOf(err) != KindUnexpected || errors.Is(err, ErrUnexpected)
}
