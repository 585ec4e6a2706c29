package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"tableside/config"
	"tableside/controllers"
	"tableside/middlewares"
	"tableside/realtime"
	"tableside/services"
	"tableside/utils"
)

// SetupRouter wires services, controllers and middleware onto one engine.
// The hub is injected so the realtime layer carries no global state.
func SetupRouter(db *gorm.DB, hub *realtime.Hub, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	orderSvc := services.NewOrderService(db)
	guestSvc := services.NewGuestService(db)
	tableSvc := services.NewTableService(db)
	paymentSvc := services.NewPaymentService(db, cfg.PayOSChecksum)
	payosClient := services.NewPayOSClient(services.PayOSConfig{
		ClientID:    cfg.PayOSClientID,
		APIKey:      cfg.PayOSAPIKey,
		ChecksumKey: cfg.PayOSChecksum,
		BaseURL:     cfg.PayOSBaseURL,
		ReturnURL:   cfg.PayOSReturnURL,
		CancelURL:   cfg.PayOSCancelURL,
	})

	sessions := hub.Router()
	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(orderSvc, hub, sessions)
	guestCtrl := controllers.NewGuestController(guestSvc, orderSvc, hub, sessions)
	tableCtrl := controllers.NewTableController(tableSvc)
	dishCtrl := controllers.NewDishController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc, payosClient, hub)
	wsCtrl := controllers.NewWSController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Credential endpoints behind a strict per-IP limiter.
	loginLimiter := middlewares.NewLoginRateLimiter(rate.Every(10*time.Second), 5)
	public := r.Group("/")
	public.Use(loginLimiter.Middleware())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/guest/auth/login", guestCtrl.Login)
	}
	r.POST("/guest/auth/refresh-token", guestCtrl.RefreshToken)

	// Catalog is publicly readable.
	r.GET("/dishes", dishCtrl.GetAllDishes)
	r.GET("/dishes/:dish_id", dishCtrl.GetDishByID)
	r.GET("/categories", categoryCtrl.GetAllCategories)

	// Gateway settlement callback: unauthenticated transport, authenticity
	// via payload checksum.
	r.POST("/payment/webhook", paymentCtrl.HandleWebhook)

	// Guest session routes.
	guest := r.Group("/guest")
	guest.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(utils.RoleGuest))
	{
		guest.POST("/auth/logout", guestCtrl.Logout)
		guest.POST("/orders", guestCtrl.CreateOrders)
		guest.GET("/orders", guestCtrl.GetOrders)
	}

	// Staff routes.
	staff := r.Group("/")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(utils.RoleOwner, utils.RoleEmployee))
	{
		staff.POST("/orders", orderCtrl.CreateOrders)
		staff.GET("/orders", orderCtrl.GetAllOrders)
		staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		staff.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
		staff.PUT("/orders/:order_id/reject", orderCtrl.RejectOrder)
		staff.POST("/orders/pay", orderCtrl.PayOrders)

		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.GET("/tables/:number", tableCtrl.GetTableByNumber)
		staff.POST("/tables", tableCtrl.CreateTable)
		staff.PUT("/tables/:number", tableCtrl.UpdateTable)
		staff.DELETE("/tables/:number", tableCtrl.DeleteTable)

		staff.POST("/dishes", dishCtrl.CreateDish)
		staff.PUT("/dishes/:dish_id", dishCtrl.UpdateDish)
		staff.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)

		staff.POST("/categories", categoryCtrl.CreateCategory)
		staff.PUT("/categories/:cat_id", categoryCtrl.UpdateCategory)
		staff.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		staff.POST("/payment/create-payment-link", paymentCtrl.CreatePaymentLink)
	}

	// WebSocket endpoint: token via query param.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", wsCtrl.Handle)
	}

	return r
}
