package handler

import (
	"net/http"

	"repair-server/internal/models"
	"repair-server/internal/service"

	"github.com/gin-gonic/gin"
)

// register creates a new account. A phone_number in the body selects the
// customer path, its absence the master path. Validation failures come back
// as 403, matching what clients of /registration/ already expect.
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		handleRegistrationError(c, err)
		return
	}

	registrationsTotal.WithLabelValues(string(user.Role)).Inc()

	c.JSON(http.StatusOK, registeredResponse{
		ID:          user.ID.String(),
		Username:    user.Username,
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
	})
}

// login authenticates by phone_number (customer) or username (master) and
// returns an access/refresh token pair.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	var cred service.Credential
	switch {
	case req.PhoneNumber != "":
		cred = service.PhonePassword{PhoneNumber: req.PhoneNumber, Password: req.Password}
	case req.Username != "":
		cred = service.UsernamePassword{Username: req.Username, Password: req.Password}
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Either phone_number or username is required",
		})
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), cred)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	loginsTotal.Inc()
	c.JSON(http.StatusOK, tokens)
}

// logout revokes the supplied refresh token together with the access token the
// call was authenticated with.
func (h *Handler) logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	accessUUID := c.GetString("access_uuid")
	if err := h.authService.Logout(c.Request.Context(), accessUUID, req.Refresh); err != nil {
		// Любая проблема с refresh-токеном на выходе — это 400 для клиента
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeTokenInvalid,
			Message: "Refresh token is invalid, expired or already revoked",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
