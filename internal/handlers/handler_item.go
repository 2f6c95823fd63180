package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/gin-gonic/gin"
)

// itemHandler handles HTTP requests related to the parts catalogue.
type itemHandler struct {
	itemService portssvc.ItemSvcFacade
}

func newItemHandler(is portssvc.ItemSvcFacade) *itemHandler {
	return &itemHandler{itemService: is}
}

// createItem godoc
// @Summary Register a part
// @Description Creates a catalogue item. Opening stock is booked as an OPENING ledger entry.
// @Tags items
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateItemRequest true "Item details"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Item code already exists"
// @Security BearerAuth
// @Router /items [post]
func (h *itemHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateItemRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("item_code", req.Code))
	item, err := h.itemService.CreateItem(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create item")
		return
	}

	logger.Info("Item created", slog.Int64("opening_stock", item.PhysicalStock))
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// getItem godoc
// @Summary Get a part
// @Tags items
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /items/{itemCode} [get]
func (h *itemHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("itemCode"), actor)
	if err != nil {
		respondError(c, logger.With(slog.String("item_code", c.Param("itemCode"))), err, "get item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// listItems godoc
// @Summary List parts
// @Description Lists active items ordered by code using token-based pagination.
// @Tags items
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListItemsResponse
// @Security BearerAuth
// @Router /items [get]
func (h *itemHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	items, next, err := h.itemService.ListItems(c.Request.Context(), params, actor)
	if err != nil {
		respondError(c, logger, err, "list items")
		return
	}
	c.JSON(http.StatusOK, dto.ListItemsResponse{Items: dto.ToItemResponses(items), NextToken: next})
}

// updateItem godoc
// @Summary Edit a part
// @Description Overwrites non-stock fields when expectedVersion matches.
// @Tags items
// @Accept  json
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   item body dto.UpdateItemRequest true "New details"
// @Success 200 {object} dto.ItemResponse
// @Failure 409 {object} map[string]string "Version mismatch"
// @Security BearerAuth
// @Router /items/{itemCode} [put]
func (h *itemHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	code := c.Param("itemCode")
	item, err := h.itemService.UpdateItem(c.Request.Context(), code, req, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("item_code", code)), err, "update item")
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// deactivateItem godoc
// @Summary Deactivate a part
// @Tags items
// @Produce  json
// @Param   itemCode path string true "Item code"
// @Param   expectedVersion query int true "Version the caller last read"
// @Success 200 {object} dto.ItemResponse
// @Failure 409 {object} map[string]string "Version mismatch"
// @Security BearerAuth
// @Router /items/{itemCode} [delete]
func (h *itemHandler) deactivateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.DeactivateItemRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	code := c.Param("itemCode")
	item, err := h.itemService.DeactivateItem(c.Request.Context(), code, req.ExpectedVersion, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("item_code", code)), err, "deactivate item")
		return
	}
	logger.Info("Item deactivated", slog.String("item_code", code))
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}
