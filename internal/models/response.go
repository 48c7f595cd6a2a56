package models

// Error codes returned in ErrorResponse payloads.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDuplicateUser    = "USER_EXISTS"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the standard JSON error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AdvisoryResponse is the success-shaped refusal payload used for business-rule
// gates (deleting an in-progress request as its owner, editing a paid invoice).
// These come back with HTTP 200 and leave state untouched; clients already depend
// on the capitalized key.
type AdvisoryResponse struct {
	Attention string `json:"Attention"`
}
