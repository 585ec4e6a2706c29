package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tableside/realtime"
	"tableside/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSController upgrades authenticated clients into the hub: staff join the
// manager room, guests get a dedicated channel bound in the session router.
type WSController struct {
	Hub *realtime.Hub
}

func NewWSController(hub *realtime.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Handle -> websocket endpoint. Runs behind WebSocketAuthMiddleware.
func (wc *WSController) Handle(c *gin.Context) {
	role := c.GetString("role")
	userID := c.GetUint("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	switch role {
	case utils.RoleOwner, utils.RoleEmployee:
		wc.Hub.RegisterStaff(conn, role)
		wc.readUntilClose(conn)
		wc.Hub.UnregisterStaff(conn)
	case utils.RoleGuest:
		channelID := wc.Hub.RegisterGuest(conn, userID)
		utils.InfoLogger.Printf("Guest %d connected on channel %s", userID, channelID)
		wc.readUntilClose(conn)
		wc.Hub.UnregisterGuest(channelID)
	default:
		conn.Close()
	}
}

// readUntilClose drains inbound frames until the peer disconnects. The
// protocol is server-push only.
func (wc *WSController) readUntilClose(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
