package controllers

import (
	"net/http"

	"cafepos/app/services"
	"cafepos/pkg/bind"
	"cafepos/pkg/logger"
	"cafepos/pkg/response"
)

// OrderController exposes order placement over HTTP. Orders are create-only:
// there is no update, delete, or status transition endpoint.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

const missingOrderDataMsg = "Missing required order data (employee_id, items)."

// Store handles POST /api/orders.
//
// Shape validation happens before any store interaction: the employee
// reference must be present and items must be a non-empty JSON array. A
// malformed body (items as a scalar, truncated JSON) fails the decode and is
// rejected with the same 400.
//
// Any fault inside the transaction, including a line referencing an unknown
// menu item, surfaces as a generic 500 with the fault message attached.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceOrderInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, missingOrderDataMsg)
		return
	}

	if in.EmployeeID == 0 || len(in.Items) == 0 {
		response.Error(w, http.StatusBadRequest, missingOrderDataMsg)
		return
	}

	order, err := c.service.Place(r.Context(), in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order placement failed", "error", err)
		response.ErrorWith(w, http.StatusInternalServerError, "Failed to place order", err)
		return
	}

	logger.WithCtx(r.Context()).Info("order placed",
		"order_id", order.OrderID,
		"total_amount", order.TotalAmount,
		"lines", len(order.Items),
	)
	response.Created(w, "Order placed successfully!", map[string]interface{}{
		"order_id":     order.OrderID,
		"total_amount": order.TotalAmount,
	})
}
