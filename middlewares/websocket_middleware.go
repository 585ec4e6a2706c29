package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades. Browsers cannot
// set headers on websocket requests, so the token arrives as a query param.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil || claims.TokenType != utils.TokenTypeAccess {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		if claims.TableNumber != nil {
			c.Set("table_number", *claims.TableNumber)
		}
		c.Next()
	}
}
