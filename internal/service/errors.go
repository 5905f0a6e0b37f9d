package service

import "errors"

var (
	// ErrValidation marks malformed or missing input, detected before any
	// storage mutation is attempted.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyCart is returned by checkout when the cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCartMismatch is returned by checkout when the client-supplied
	// manifest disagrees with the live cart.
	ErrCartMismatch = errors.New("cart items validation failed")
)
