package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tableside/models"
	"tableside/realtime"
	"tableside/services"
	"tableside/utils"
)

// OrderController exposes the staff-facing order lifecycle. Every mutation
// commits first and then notifies live listeners; notification is
// best-effort and never fails the request.
type OrderController struct {
	Orders      *services.OrderService
	Broadcaster realtime.Broadcaster
	Sessions    *realtime.SessionRouter
}

func NewOrderController(orders *services.OrderService, broadcaster realtime.Broadcaster, sessions *realtime.SessionRouter) *OrderController {
	return &OrderController{Orders: orders, Broadcaster: broadcaster, Sessions: sessions}
}

// CreateOrders -> staff places orders on behalf of a guest session.
func (oc *OrderController) CreateOrders(c *gin.Context) {
	var body struct {
		GuestID uint                      `json:"guest_id" binding:"required"`
		Orders  []services.OrderItemInput `json:"orders" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.Orders.CreateOrders(body.GuestID, body.Orders)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	oc.Broadcaster.Publish(realtime.Audience{
		Staff:        true,
		GuestChannel: oc.Sessions.ResolveChannel(&body.GuestID),
	}, realtime.Message{Event: realtime.EventNewOrder, Data: orders})

	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("Created %d orders", len(orders)), orders)
}

// GetAllOrders -> list orders, optional fromDate/toDate window (RFC 3339).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	fromDate, err := parseTimeQuery(c, "fromDate")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	toDate, err := parseTimeQuery(c, "toDate")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, listErr := oc.Orders.ListOrders(fromDate, toDate)
	if listErr != nil {
		respondServiceError(c, listErr)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder -> apply one status transition.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(orderID, body.Status, handlerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	oc.Broadcaster.Publish(realtime.Audience{
		Staff:        true,
		GuestChannel: oc.Sessions.ResolveChannel(order.GuestID),
	}, realtime.Message{Event: realtime.EventUpdateOrder, Data: order})

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// RejectOrder -> terminal rejection. Marks the row Rejected (never deletes)
// and additionally sends the guest a minimal status delta so the guest UI
// can react independently of the staff broadcast.
func (oc *OrderController) RejectOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Reject(orderID, handlerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	guestChannel := oc.Sessions.ResolveChannel(order.GuestID)
	oc.Broadcaster.Publish(realtime.Audience{
		Staff:        true,
		GuestChannel: guestChannel,
	}, realtime.Message{Event: realtime.EventOrderRejected, Data: order})

	if guestChannel != "" {
		oc.Broadcaster.Publish(realtime.Audience{GuestChannel: guestChannel},
			realtime.Message{
				Event: realtime.EventOrderStatusUpdated,
				Data: gin.H{
					"orderId":   order.ID,
					"newStatus": order.Status,
				},
			})
	}

	utils.RespondJSON(c, http.StatusOK, "Order rejected", order)
}

// PayOrders -> settle every open order of one guest in a single batch.
func (oc *OrderController) PayOrders(c *gin.Context) {
	var body struct {
		GuestID uint `json:"guest_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.Orders.PayGuestOrders(body.GuestID, handlerID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(orders) > 0 {
		oc.Broadcaster.Publish(realtime.Audience{
			Staff:        true,
			GuestChannel: oc.Sessions.ResolveChannel(&body.GuestID),
		}, realtime.Message{Event: realtime.EventPayment, Data: orders})
	}

	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Paid %d orders", len(orders)), orders)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(id), nil
}

func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected RFC 3339", name)
	}
	return &t, nil
}
