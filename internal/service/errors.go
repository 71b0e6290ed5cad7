package service

import "errors"

var (
	// ErrNotFound covers products, users, carts and order numbers that do
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation covers out-of-range input: non-positive quantities,
	// negative amounts, missing fields.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity covers orders whose product has no resolvable seller.
	ErrIntegrity = errors.New("data integrity error")

	// ErrInsufficientStock fails a checkout whose quantities exceed the
	// remaining stock of any product.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicateEvent flags a payment confirmation that was already
	// processed. Callers acknowledge and ignore it.
	ErrDuplicateEvent = errors.New("duplicate payment event")

	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInactiveUser  = errors.New("account not activated")
)
