package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workOrderHandler handles work orders and their part reservations.
type workOrderHandler struct {
	workOrderService portssvc.WorkOrderSvcFacade
}

func newWorkOrderHandler(ws portssvc.WorkOrderSvcFacade) *workOrderHandler {
	return &workOrderHandler{workOrderService: ws}
}

// createWorkOrder godoc
// @Summary Open a work order
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   workOrder body dto.CreateWorkOrderRequest true "Work order with reservations"
// @Success 201 {object} dto.WorkOrderResponse
// @Failure 404 {object} map[string]string "Reserved item not found"
// @Security BearerAuth
// @Router /work-orders [post]
func (h *workOrderHandler) createWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateWorkOrderRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	order, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "create work order")
		return
	}
	logger.Info("Work order created", slog.String("order_id", order.OrderID), slog.Int("reservations", len(order.Reservations)))
	c.JSON(http.StatusCreated, dto.ToWorkOrderResponse(order))
}

// getWorkOrder godoc
// @Summary Get a work order
// @Tags work-orders
// @Produce  json
// @Param   orderID path string true "Work order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 404 {object} map[string]string "Work order not found"
// @Security BearerAuth
// @Router /work-orders/{orderID} [get]
func (h *workOrderHandler) getWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("order_id", c.Param("orderID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	order, err := h.workOrderService.GetWorkOrder(c.Request.Context(), c.Param("orderID"), actor)
	if err != nil {
		respondError(c, logger, err, "get work order")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// replaceReservations godoc
// @Summary Replace the reservations of an open work order
// @Tags work-orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Work order ID"
// @Param   reservations body dto.ReplaceReservationsRequest true "New reservation set"
// @Success 200 {object} dto.WorkOrderResponse
// @Failure 409 {object} map[string]string "Work order is not open"
// @Security BearerAuth
// @Router /work-orders/{orderID}/reservations [put]
func (h *workOrderHandler) replaceReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("order_id", c.Param("orderID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.ReplaceReservationsRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	order, err := h.workOrderService.ReplaceReservations(c.Request.Context(), c.Param("orderID"), req, actor)
	if err != nil {
		respondError(c, logger, err, "replace reservations")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}

// cancelWorkOrder godoc
// @Summary Cancel a work order
// @Description Releases its reservations. Cancelling twice is a no-op.
// @Tags work-orders
// @Produce  json
// @Param   orderID path string true "Work order ID"
// @Success 200 {object} dto.WorkOrderResponse
// @Security BearerAuth
// @Router /work-orders/{orderID}/cancel [post]
func (h *workOrderHandler) cancelWorkOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("order_id", c.Param("orderID")))
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	order, err := h.workOrderService.CancelWorkOrder(c.Request.Context(), c.Param("orderID"), actor)
	if err != nil {
		respondError(c, logger, err, "cancel work order")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderResponse(order))
}
