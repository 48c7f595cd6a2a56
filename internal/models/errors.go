package models

import "errors"

// Application-wide standard errors
var (
	// User & Registration Errors
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("this username was registered")
	ErrCustomerAlreadyExists = errors.New("this customer was registered")
	ErrInvalidPhoneNumber    = errors.New("incorrect phone number")
	ErrMissingCredentials    = errors.New("not found credentials")
	ErrInvalidCredentials    = errors.New("invalid login or password")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// Request & Invoice Errors
	ErrRequestNotFound   = errors.New("request not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrRequestInProgress = errors.New("this request is still being repaired")

	// Advisory refusals: business-rule gates that answer with a 200-level
	// payload instead of an error status (observed contract).
	ErrRequestUnderRepair = errors.New("non completed request cannot be removed")
	ErrInvoicePaid        = errors.New("invoice is already paid")

	// General Request/Server Errors
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input data")
)
