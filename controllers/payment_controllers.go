package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tableside/models"
	"tableside/realtime"
	"tableside/services"
	"tableside/utils"
)

// PaymentController handles the gateway integration: the inbound settlement
// webhook and outbound payment-link creation.
type PaymentController struct {
	DB          *gorm.DB
	Payments    *services.PaymentService
	PayOS       *services.PayOSClient
	Broadcaster realtime.Broadcaster
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService, payos *services.PayOSClient, broadcaster realtime.Broadcaster) *PaymentController {
	return &PaymentController{DB: db, Payments: payments, PayOS: payos, Broadcaster: broadcaster}
}

// HandleWebhook -> gateway settlement callback. The transport is
// unauthenticated; the payload checksum is the only authenticity guarantee.
// Responses are the gateway's wire contract, not the app envelope:
// 200 {success:true}, 400 on validation, 500 on persistence failure (the
// gateway redelivers, and the batch write is idempotent).
func (pc *PaymentController) HandleWebhook(c *gin.Context) {
	// UseNumber keeps numeric fields bit-exact for checksum recomputation.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrMalformedPayload.Error()})
		return
	}

	orders, err := pc.Payments.ApplyWebhook(payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChecksumInvalid):
			// Security-relevant: a mismatch on this endpoint is the forged
			// settlement case. Never echo the expected digest.
			utils.ErrorLogger.Printf("payment webhook rejected: invalid checksum (orderCode=%v, remote=%s)",
				payload["orderCode"], c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrMalformedPayload):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply payment"})
		}
		return
	}

	// Gateway settlement is decoupled from any live guest session, so this
	// event goes to the staff channel only.
	pc.Broadcaster.Publish(realtime.Audience{Staff: true},
		realtime.Message{Event: realtime.EventPayment, Data: orders})

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreatePaymentLink -> staff requests a hosted checkout URL for a set of
// orders. The listed orders are settled up front; the gateway link is for
// the guest's record.
func (pc *PaymentController) CreatePaymentLink(c *gin.Context) {
	var body struct {
		Amount      int    `json:"amount" binding:"required"`
		OrderIDs    []uint `json:"order_ids" binding:"required,min=1"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be positive"))
		return
	}

	var orders []models.Order
	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id IN ?", body.OrderIDs).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusPaid,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.Preload("DishSnapshot").Where("id IN ?", body.OrderIDs).Find(&orders).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondError(c, http.StatusNotFound, services.ErrOrderNotFound)
		return
	}

	items := make([]services.PaymentItem, 0, len(orders))
	for _, order := range orders {
		items = append(items, services.PaymentItem{
			Name:     order.DishSnapshot.Name,
			Quantity: order.Quantity,
			Price:    order.DishSnapshot.Price,
		})
	}

	description := body.Description
	if description == "" {
		description = fmt.Sprintf("Orders %v", body.OrderIDs)
	}

	// Gateway order codes only need uniqueness per merchant.
	orderCode := time.Now().UnixMilli() % 1000000

	link, err := pc.PayOS.CreatePaymentLink(orderCode, body.Amount, description, items)
	if err != nil {
		utils.ErrorLogger.Printf("create payment link: %v", err)
		utils.RespondError(c, http.StatusBadGateway, errors.New("payment gateway error"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment link created", gin.H{
		"checkout_url": link.CheckoutURL,
	})
}
