package handler

import (
	"net/http"
	"strings"

	"repair-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the bearer access token and stores the caller's
// identity (user_id, role, access_uuid) in the request context.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			zap.L().Warn("Authorization header missing")
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			zap.L().Warn("Invalid Authorization header format", zap.String("header", authHeader))
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, models.ErrTokenInvalid)
			return
		}

		claims, err := h.authService.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			zap.L().Warn("Access token verification failed", zap.Error(err))
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, err)
			return
		}

		tokenVerificationsTotal.WithLabelValues("access", "success").Inc()
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("access_uuid", claims.ID)
		zap.L().Debug("Access token verified successfully",
			zap.String("userID", claims.UserID.String()),
			zap.String("role", string(claims.Role)),
			zap.String("accessUUID", claims.ID),
		)
		c.Next()
	}
}

// RequireMasterRole gates master-only routes. Must run after AuthMiddleware.
func (h *Handler) RequireMasterRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := callerRole(c)
		if !ok || role != models.RoleMaster {
			zap.L().Warn("Master-only route accessed without master role", zap.String("role", string(role)))
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Code:    models.ErrCodeForbidden,
				Message: "Master privileges required",
			})
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func callerRole(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get("role")
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
