package domain

import "errors"

// Domain errors as sentinel values
var (
	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidProductID = errors.New("product id cannot be empty")
	ErrInvalidMoney     = errors.New("invalid money amount")

	// Configuration errors
	ErrStoreUnavailable        = errors.New("discount configuration store unavailable")
	ErrInvalidCurrencyDecimals = errors.New("currency decimals must be between 0 and 8")
	ErrInvalidPricingOrder     = errors.New("pricing order must be \"before\" or \"after\"")
	ErrRevisionConflict        = errors.New("discount settings were changed by someone else")
)
