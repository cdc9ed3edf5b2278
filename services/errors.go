package services

import "errors"

var (
	// ErrUnauthenticated is returned when an operation is requested with
	// no active user; no store access is attempted.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrInvalidQuantity is returned for non-positive add quantities.
	// The request is rejected before any store access.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrSessionClosed is returned for operations on a detached session.
	ErrSessionClosed = errors.New("basket session closed")

	// ErrEmptyCart is returned when checkout is requested on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)
