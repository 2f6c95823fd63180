package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stockHandler exposes stock levels, ledger history and the manual stock movements.
type stockHandler struct {
	ledger       portssvc.StockLedgerSvc
	logical      portssvc.LogicalStockSvc
	adjustment   portssvc.StockAdjustmentSvc
	capabilities portssvc.CapabilityChecker
}

func newStockHandler(services *portssvc.ServiceContainer) *stockHandler {
	return &stockHandler{
		ledger:       services.Ledger,
		logical:      services.LogicalStock,
		adjustment:   services.Adjustment,
		capabilities: services.Capabilities,
	}
}

// authorizeRead answers 401/403 unless the caller may read stock.
func (h *stockHandler) authorizeRead(c *gin.Context, logger *slog.Logger) bool {
	actor, ok := requireActor(c, logger)
	if !ok {
		return false
	}
	if err := h.capabilities.Authorize(c.Request.Context(), actor, domain.CapStockRead); err != nil {
		respondError(c, logger, err, "read stock")
		return false
	}
	return true
}

// getStockLevel godoc
// @Summary Physical, reserved and logical stock of a part
// @Tags stock
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Success 200 {object} domain.StockLevel
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{itemCode}/stock [get]
func (h *stockHandler) getStockLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	if !h.authorizeRead(c, logger) {
		return
	}

	level, err := h.logical.GetLogicalStock(c.Request.Context(), c.Param("itemCode"))
	if err != nil {
		respondError(c, logger, err, "get stock level")
		return
	}
	c.JSON(http.StatusOK, level)
}

// getLedgerHistory godoc
// @Summary Stock card of a part
// @Description Ledger entries newest first with the running balance after each entry.
// @Tags stock
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.LedgerHistoryResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{itemCode}/ledger [get]
func (h *stockHandler) getLedgerHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	if !h.authorizeRead(c, logger) {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	history, err := h.ledger.GetLedgerHistory(c.Request.Context(), c.Param("itemCode"), params)
	if err != nil {
		respondError(c, logger, err, "get ledger history")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerHistoryResponse(history))
}

// reconcile godoc
// @Summary Check a part against its full ledger
// @Description Answers 500 with the report when the ledger and the stock counter disagree.
// @Tags stock
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 500 {object} map[string]interface{} "Integrity violation with report"
// @Security BearerAuth
// @Router /items/{itemCode}/reconcile [get]
func (h *stockHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	if !h.authorizeRead(c, logger) {
		return
	}

	report, err := h.ledger.Reconcile(c.Request.Context(), c.Param("itemCode"))
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) && report != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
			return
		}
		respondError(c, logger, err, "reconcile item")
		return
	}
	c.JSON(http.StatusOK, report)
}

// adjustStock godoc
// @Summary Manual stock correction
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   adjustment body dto.AdjustStockRequest true "Delta and reason"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Zero delta or missing reason"
// @Security BearerAuth
// @Router /items/{itemCode}/adjustments [post]
func (h *stockHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.ItemCode = c.Param("itemCode")

	entry, err := h.adjustment.AdjustStock(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "adjust stock")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// recordPurchase godoc
// @Summary Book supplier intake
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   purchase body dto.RecordPurchaseRequest true "Quantity and optional unit cost"
// @Success 201 {object} dto.LedgerEntryResponse
// @Security BearerAuth
// @Router /items/{itemCode}/purchases [post]
func (h *stockHandler) recordPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.RecordPurchaseRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.ItemCode = c.Param("itemCode")

	entry, err := h.adjustment.RecordPurchase(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "record purchase")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// opname godoc
// @Summary Record a physical count
// @Description Writes the difference between counted and physical stock. No entry is written when they match.
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   opname body dto.OpnameRequest true "Counted quantity"
// @Success 201 {object} dto.LedgerEntryResponse
// @Success 204 "Count matches stock"
// @Security BearerAuth
// @Router /items/{itemCode}/opname [post]
func (h *stockHandler) opname(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_code", c.Param("itemCode")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.OpnameRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.ItemCode = c.Param("itemCode")

	entry, err := h.adjustment.Opname(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "record opname")
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}
