package middleware

import (
	"net/http"
	"strings"

	"voyago/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth authenticates requests by validating the bearer token signed by
// the auth service. The user id from the claims is trusted as-is.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}
