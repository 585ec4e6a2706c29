package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tableside/controllers"
	"tableside/realtime"
	"tableside/services"
	"tableside/utils"
)

func setupGuestRouter(db *gorm.DB, broadcaster *recordingBroadcaster, sessions *realtime.SessionRouter) *gin.Engine {
	router := gin.New()
	ctrl := controllers.NewGuestController(
		services.NewGuestService(db),
		services.NewOrderService(db),
		broadcaster,
		sessions,
	)

	router.POST("/guest/auth/login", ctrl.Login)
	router.POST("/guest/auth/refresh-token", ctrl.RefreshToken)

	// Authenticated guest surface; identity comes from the access token the
	// same way the auth middleware injects it.
	authed := router.Group("/guest")
	authed.Use(func(c *gin.Context) {
		claims, err := utils.ParseToken(c.GetHeader("Authorization"))
		if err != nil || claims.TokenType != utils.TokenTypeAccess {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
	})
	authed.POST("/auth/logout", ctrl.Logout)
	authed.POST("/orders", ctrl.CreateOrders)
	authed.GET("/orders", ctrl.GetOrders)
	return router
}

func TestGuestLoginEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupGuestRouter(db, &recordingBroadcaster{}, realtime.NewSessionRouter())

	table, err := services.NewTableService(db).CreateTable(services.CreateTableParams{Number: 4, Capacity: 2})
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/guest/auth/login", map[string]interface{}{
		"name":         "Alice",
		"table_number": 4,
		"token":        table.Token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	// The persisted refresh credential stays out of the guest payload.
	guest := data["guest"].(map[string]interface{})
	_, exposed := guest["refresh_token"]
	assert.False(t, exposed)

	// Stale table token.
	w = doJSON(t, router, "POST", "/guest/auth/login", map[string]interface{}{
		"name":         "Bob",
		"table_number": 4,
		"token":        "rotated-away",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestRefreshEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupGuestRouter(db, &recordingBroadcaster{}, realtime.NewSessionRouter())

	table, err := services.NewTableService(db).CreateTable(services.CreateTableParams{Number: 4, Capacity: 2})
	require.NoError(t, err)
	session, err := services.NewGuestService(db).Login("Alice", 4, table.Token)
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/guest/auth/refresh-token", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.NotEqual(t, session.RefreshToken, data["refresh_token"])

	// The rotated-out token is dead.
	w = doJSON(t, router, "POST", "/guest/auth/refresh-token", map[string]interface{}{
		"refresh_token": session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuestOrderEndpoints(t *testing.T) {
	db := setupTestDB(t)
	broadcaster := &recordingBroadcaster{}
	sessions := realtime.NewSessionRouter()
	router := setupGuestRouter(db, broadcaster, sessions)

	table, err := services.NewTableService(db).CreateTable(services.CreateTableParams{Number: 4, Capacity: 2})
	require.NoError(t, err)
	session, err := services.NewGuestService(db).Login("Alice", 4, table.Token)
	require.NoError(t, err)
	dish := seedDish(t, db, "Pho", 50000)
	sessions.Connect(session.Guest.ID, "guest-channel")

	w := doJSONAuth(t, router, "POST", "/guest/orders", map[string]interface{}{
		"orders": []map[string]interface{}{{"dish_id": dish.ID, "quantity": 2}},
	}, session.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	events := broadcaster.EventsNamed(realtime.EventNewOrder)
	require.Len(t, events, 1)
	assert.True(t, events[0].Audience.Staff)
	assert.Equal(t, "guest-channel", events[0].Audience.GuestChannel)

	w = doJSONAuth(t, router, "GET", "/guest/orders", nil, session.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, orders, 1)

	// No token, no access.
	w = doJSON(t, router, "GET", "/guest/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSONAuth(t, router, "POST", "/guest/auth/logout", nil, session.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
