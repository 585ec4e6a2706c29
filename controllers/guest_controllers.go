package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/realtime"
	"tableside/services"
	"tableside/utils"
)

// GuestController covers the guest-facing surface: table-token login,
// credential refresh/logout and the guest's own orders.
type GuestController struct {
	Guests      *services.GuestService
	Orders      *services.OrderService
	Broadcaster realtime.Broadcaster
	Sessions    *realtime.SessionRouter
}

func NewGuestController(guests *services.GuestService, orders *services.OrderService, broadcaster realtime.Broadcaster, sessions *realtime.SessionRouter) *GuestController {
	return &GuestController{Guests: guests, Orders: orders, Broadcaster: broadcaster, Sessions: sessions}
}

// Login -> guest authenticates with the table's current session token.
func (gc *GuestController) Login(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		TableNumber uint   `json:"table_number" binding:"required"`
		Token       string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := gc.Guests.Login(body.Name, body.TableNumber, body.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Guest %d logged in at table %d", session.Guest.ID, session.Guest.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"guest":         session.Guest,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
	})
}

// RefreshToken -> re-issue the token pair against the stored credential.
func (gc *GuestController) RefreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session, err := gc.Guests.RefreshCredentials(body.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Token refreshed", gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
	})
}

// Logout -> clear the stored refresh credential.
func (gc *GuestController) Logout(c *gin.Context) {
	if err := gc.Guests.Logout(c.GetUint("user_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// CreateOrders -> guest places orders for their own session.
func (gc *GuestController) CreateOrders(c *gin.Context) {
	var body struct {
		Orders []services.OrderItemInput `json:"orders" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	guestID := c.GetUint("user_id")
	orders, err := gc.Orders.CreateOrders(guestID, body.Orders)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	gc.Broadcaster.Publish(realtime.Audience{
		Staff:        true,
		GuestChannel: gc.Sessions.ResolveChannel(&guestID),
	}, realtime.Message{Event: realtime.EventNewOrder, Data: orders})

	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("Created %d orders", len(orders)), orders)
}

// GetOrders -> the guest's own orders.
func (gc *GuestController) GetOrders(c *gin.Context) {
	orders, err := gc.Orders.GuestOrders(c.GetUint("user_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}
