package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONRecovery turns panics into a plain JSON error body. Every error path
// in this API must produce exactly one well-formed JSON object, never an
// HTML error page or a stack trace.
func JSONRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("panic recovered: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	})
}
