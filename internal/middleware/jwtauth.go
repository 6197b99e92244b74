package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labstock-system/internal/utils"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authorization token required",
			})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid or expired token",
			})
			return
		}

		c.Set("user_id", claims.UserId)
		c.Set("user_nome", claims.Nome)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
