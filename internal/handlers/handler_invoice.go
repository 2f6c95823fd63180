package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// createInvoice godoc
// @Summary Bill a work order
// @Description Numbers the invoice, consumes stocked parts and stores it as UNPAID.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid line items"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "An invoice for this work order already exists"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("subject_ref", req.SubjectRef))
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("document_number", invoice.DocumentNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("invoiceID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("invoiceID"), actor)
	if err != nil {
		respondError(c, logger, err, "get invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// getWorkOrderInvoice godoc
// @Summary Get the active invoice of a work order
// @Tags invoices
// @Produce  json
// @Param   orderID path string true "Work order ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "No active invoice"
// @Security BearerAuth
// @Router /work-orders/{orderID}/invoice [get]
func (h *invoiceHandler) getWorkOrderInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("subject_ref", c.Param("orderID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetActiveInvoiceForSubject(c.Request.Context(), c.Param("orderID"), actor)
	if err != nil {
		respondError(c, logger, err, "get work order invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markPaid godoc
// @Summary Settle an invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.MarkPaidRequest true "Payment method"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} map[string]string "Invoice is not UNPAID"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/pay [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("invoiceID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), c.Param("invoiceID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "mark invoice paid")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// voidInvoice godoc
// @Summary Void an invoice
// @Description Cancels an UNPAID invoice and restocks its parts.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   void body dto.VoidInvoiceRequest false "Reason"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 409 {object} map[string]string "Invoice is not UNPAID"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_id", c.Param("invoiceID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.VoidInvoiceRequest
	// The body is optional.
	if c.Request.ContentLength != 0 && !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), c.Param("invoiceID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "void invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
