package handler

import (
	"net/http"

	"repair-server/internal/config"
	"repair-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler wires the HTTP layer to the services.
type Handler struct {
	authService    service.AuthService
	requestService service.RequestService
	invoiceService service.InvoiceService
	cfg            *config.Config
}

func NewHandler(authService service.AuthService, requestService service.RequestService, invoiceService service.InvoiceService, cfg *config.Config) *Handler {
	return &Handler{
		authService:    authService,
		requestService: requestService,
		invoiceService: invoiceService,
		cfg:            cfg,
	}
}

// RegisterRoutes registers all application routes. rateLimiter guards the two
// public auth endpoints and may be nil in tests.
func (h *Handler) RegisterRoutes(router *gin.Engine, rateLimiter gin.HandlerFunc) {
	public := router.Group("/")
	if rateLimiter != nil {
		public.Use(rateLimiter)
	}
	{
		public.POST("/registration/", h.register)
		public.POST("/login/", h.login)
	}

	router.POST("/logout/", h.AuthMiddleware(), h.logout)

	// Личный кабинет: заявки и собственные счета
	cabinet := router.Group("/cabinet")
	cabinet.Use(h.AuthMiddleware())
	{
		cabinet.GET("/", h.listRequests)
		cabinet.POST("/", h.createRequest)
		cabinet.GET("/:id/", h.getRequest)
		cabinet.PUT("/:id/", h.updateRequest)
		cabinet.DELETE("/:id/", h.deleteRequest)
		cabinet.GET("/billings/", h.customerBillings)

		masterOnly := cabinet.Group("/")
		masterOnly.Use(h.RequireMasterRole())
		{
			masterOnly.GET("/customer_filter/:username/", h.filterRequestsByCustomer)
			masterOnly.GET("/requests_by_problem/:problem/", h.filterRequestsByProblem)
			masterOnly.GET("/requests_by_status&model/:model/:status/", h.filterRequestsByStatusAndModel)
		}
	}

	// Управление счетами доступно только мастеру
	billing := router.Group("/billing")
	billing.Use(h.AuthMiddleware(), h.RequireMasterRole())
	{
		billing.GET("/", h.listInvoices)
		billing.POST("/", h.createInvoice)
		billing.GET("/:id/", h.getInvoice)
		billing.PUT("/:id/", h.updateInvoice)
		billing.DELETE("/:id/", h.deleteInvoice)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
