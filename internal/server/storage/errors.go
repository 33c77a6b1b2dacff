package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrProductNotFound indicates that product was not found
	ErrProductNotFound = errors.New("product not found")

	// ErrDealNotFound indicates that deal was not found
	ErrDealNotFound = errors.New("deal not found")

	// ErrSupplierNotFound indicates that supplier was not found
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrCartLineNotFound indicates that cart line was not found
	ErrCartLineNotFound = errors.New("cart line not found")

	// ErrCartEmpty indicates that the cart has no lines to order
	ErrCartEmpty = errors.New("cart is empty")
)
