package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/config"
)

// CronAuthMiddleware guards scheduler-only routes with the shared cron
// secret. Requests must carry "Authorization: Bearer <secret>". An
// empty configured secret disables the routes entirely rather than
// leaving them open.
func CronAuthMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := cfg.Cron.Secret
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"message": "cron routes are disabled"},
			})
			return
		}

		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "unauthorized"},
			})
			return
		}

		c.Next()
	}
}
