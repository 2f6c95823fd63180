package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/workshop_inventory/cmd/docs"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/SscSPs/workshop_inventory/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := registerValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mutate, err := mutationLimiter(cfg)
	if err != nil {
		return err
	}

	setupAPIV1Routes(r, cfg, services, mutate)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// mutationLimiter returns the rate limit applied to state-changing routes.
func mutationLimiter(cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.RateLimit == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	l, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	return middleware.RateLimit(l), nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	mutate gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerItemRoutes(v1, services, mutate)
	registerInvoiceRoutes(v1, services.Invoice, mutate)
	registerWorkOrderRoutes(v1, services.WorkOrder, services.Invoice, mutate)
}

func registerItemRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, mutate gin.HandlerFunc) {
	ih := newItemHandler(services.Item)
	sh := newStockHandler(services)

	items := rg.Group("/items")
	{
		items.POST("", mutate, ih.createItem)
		items.GET("", ih.listItems)
		items.GET("/:itemCode", ih.getItem)
		items.PUT("/:itemCode", mutate, ih.updateItem)
		items.DELETE("/:itemCode", mutate, ih.deactivateItem)

		items.GET("/:itemCode/stock", sh.getStockLevel)
		items.GET("/:itemCode/ledger", sh.getLedgerHistory)
		items.GET("/:itemCode/reconcile", sh.reconcile)
		items.POST("/:itemCode/adjustments", mutate, sh.adjustStock)
		items.POST("/:itemCode/purchases", mutate, sh.recordPurchase)
		items.POST("/:itemCode/opname", mutate, sh.opname)
	}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, mutate gin.HandlerFunc) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", mutate, h.createInvoice)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.POST("/:invoiceID/pay", mutate, h.markPaid)
		invoices.POST("/:invoiceID/void", mutate, h.voidInvoice)
	}
}

func registerWorkOrderRoutes(rg *gin.RouterGroup, workOrderService portssvc.WorkOrderSvcFacade, invoiceService portssvc.InvoiceSvcFacade, mutate gin.HandlerFunc) {
	h := newWorkOrderHandler(workOrderService)
	ih := newInvoiceHandler(invoiceService)

	orders := rg.Group("/work-orders")
	{
		orders.POST("", mutate, h.createWorkOrder)
		orders.GET("/:orderID", h.getWorkOrder)
		orders.GET("/:orderID/invoice", ih.getWorkOrderInvoice)
		orders.PUT("/:orderID/reservations", mutate, h.replaceReservations)
		orders.POST("/:orderID/cancel", mutate, h.cancelWorkOrder)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
