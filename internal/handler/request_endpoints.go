package handler

import (
	"net/http"

	"repair-server/internal/models"
	"repair-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// listRequests returns the caller's repair requests. Masters see all requests.
func (h *Handler) listRequests(c *gin.Context) {
	id, ok := callerID(c)
	role, okRole := callerRole(c)
	if !ok || !okRole {
		handleServiceError(c, models.ErrTokenInvalid)
		return
	}

	requests, err := h.requestService.List(c.Request.Context(), id, role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// createRequest registers a new repair request for the caller (or, for a
// master, for the customer named in the body).
func (h *Handler) createRequest(c *gin.Context) {
	id, ok := callerID(c)
	role, okRole := callerRole(c)
	if !ok || !okRole {
		handleServiceError(c, models.ErrTokenInvalid)
		return
	}

	var payload requestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), id, role, service.RequestInput{
		PhoneModel:         payload.PhoneModel,
		ProblemDescription: payload.ProblemDescription,
		CustomerID:         payload.Customer,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	requestsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) getRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request ID",
		})
		return
	}

	req, err := h.requestService.Get(c.Request.Context(), requestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *Handler) updateRequest(c *gin.Context) {
	id, ok := callerID(c)
	role, okRole := callerRole(c)
	if !ok || !okRole {
		handleServiceError(c, models.ErrTokenInvalid)
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request ID",
		})
		return
	}

	var payload requestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	req, err := h.requestService.Update(c.Request.Context(), id, role, requestID, service.RequestInput{
		PhoneModel:         payload.PhoneModel,
		ProblemDescription: payload.ProblemDescription,
		CustomerID:         payload.Customer,
		Status:             models.RequestStatus(payload.Status),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// deleteRequest removes a request and its invoices. A customer's request that
// is still in repair is refused with a 200 advisory payload.
func (h *Handler) deleteRequest(c *gin.Context) {
	role, okRole := callerRole(c)
	if !okRole {
		handleServiceError(c, models.ErrTokenInvalid)
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request ID",
		})
		return
	}

	if err := h.requestService.Delete(c.Request.Context(), role, requestID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// customerBillings returns the caller's own invoices. A master may inspect
// another customer's billings with ?username=.
func (h *Handler) customerBillings(c *gin.Context) {
	id, ok := callerID(c)
	role, okRole := callerRole(c)
	if !ok || !okRole {
		handleServiceError(c, models.ErrTokenInvalid)
		return
	}

	if username := c.Query("username"); username != "" && role == models.RoleMaster {
		invoices, err := h.invoiceService.BillingsForCustomer(c.Request.Context(), username)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoices)
		return
	}

	invoices, err := h.invoiceService.BillingsForOwner(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// filterRequestsByCustomer returns all requests of the named customer.
func (h *Handler) filterRequestsByCustomer(c *gin.Context) {
	requests, err := h.requestService.FilterByCustomer(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// filterRequestsByProblem returns requests whose problem description contains
// the given word.
func (h *Handler) filterRequestsByProblem(c *gin.Context) {
	requests, err := h.requestService.FilterByProblem(c.Request.Context(), c.Param("problem"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// filterRequestsByStatusAndModel returns requests matching both the device
// model and the repair status.
func (h *Handler) filterRequestsByStatusAndModel(c *gin.Context) {
	requests, err := h.requestService.FilterByStatusAndModel(
		c.Request.Context(),
		models.RequestStatus(c.Param("status")),
		c.Param("model"),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}
