package service

import "errors"

var (
	// ErrForbidden means the principal is authenticated but the access policy
	// denied the action.
	ErrForbidden = errors.New("forbidden access")

	ErrNotFound = errors.New("not found")

	// ErrPaymentNotVerified means the external session exists but is not in
	// the paid state. Terminal, no writes happen.
	ErrPaymentNotVerified = errors.New("payment not verified")

	// ErrUpstreamUnavailable means the call to the external payment processor
	// failed outright.
	ErrUpstreamUnavailable = errors.New("payment processor unavailable")
)
