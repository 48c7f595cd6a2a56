package handler

import (
	"net/http"

	"repair-server/internal/models"
	"repair-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) listInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// createInvoice issues a bill for a finished request. A request still in
// repair is rejected with 400.
func (h *Handler) createInvoice(c *gin.Context) {
	var payload invoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), service.InvoiceInput{
		Price:     payload.Price,
		RequestID: payload.Request,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invoicesIssuedTotal.Inc()
	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) getInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid invoice ID",
		})
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), invoiceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// updateInvoice changes price and status of an unpaid invoice. A paid invoice
// is refused with a 200 advisory payload and left untouched.
func (h *Handler) updateInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid invoice ID",
		})
		return
	}

	var payload invoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), invoiceID, service.InvoiceInput{
		Price:  payload.Price,
		Status: models.InvoiceStatus(payload.Status),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) deleteInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    models.ErrCodeBadRequest,
			Message: "Invalid invoice ID",
		})
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
