package handler

import (
	"errors"
	"net/http"

	"repair-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Advisory refusal texts. The exact wording is part of the observed contract.
const (
	msgRequestUnderRepair = "Non completed request cannot be remove!"
	msgInvoicePaid        = "Invoice was not paid\n Decline!"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	// Советующие отказы: 200 и неизменённое состояние
	case errors.Is(err, models.ErrRequestUnderRepair):
		c.AbortWithStatusJSON(http.StatusOK, models.AdvisoryResponse{Attention: msgRequestUnderRepair})
		return
	case errors.Is(err, models.ErrInvoicePaid):
		c.AbortWithStatusJSON(http.StatusOK, models.AdvisoryResponse{Attention: msgInvoicePaid})
		return
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeWrongCredentials, Message: "Invalid credentials"}
	case errors.Is(err, models.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeUserNotFound, Message: "User not found"}
	case errors.Is(err, models.ErrRequestNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Request not found"}
	case errors.Is(err, models.ErrInvoiceNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Invoice not found"}
	case errors.Is(err, models.ErrRequestInProgress):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Cannot create an invoice for a request that is still in repair"}
	case errors.Is(err, models.ErrUserAlreadyExists):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeDuplicateUser, Message: models.ErrUserAlreadyExists.Error()}
	case errors.Is(err, models.ErrCustomerAlreadyExists):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeDuplicateUser, Message: models.ErrCustomerAlreadyExists.Error()}
	case errors.Is(err, models.ErrInvalidPhoneNumber), errors.Is(err, models.ErrMissingCredentials), errors.Is(err, models.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, models.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Provided token is invalid (possibly revoked or expired)"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Code: models.ErrCodeForbidden, Message: "Access denied"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

// handleRegistrationError maps registration validation failures to 403, which
// is what existing clients expect from /registration/.
func handleRegistrationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidPhoneNumber),
		errors.Is(err, models.ErrMissingCredentials),
		errors.Is(err, models.ErrUserAlreadyExists),
		errors.Is(err, models.ErrCustomerAlreadyExists):
		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
			Code:    models.ErrCodeValidation,
			Message: err.Error(),
		})
	default:
		handleServiceError(c, err)
	}
}
