package service

import "errors"

// Business-rule and validation errors the handlers translate into 4xx
// responses. Anything else coming out of the economy service is a transient
// infrastructure fault and maps to 5xx (safe to retry: the transaction
// rolled back and no partial state was written).
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyClaimed      = errors.New("daily reward already claimed today")
)
