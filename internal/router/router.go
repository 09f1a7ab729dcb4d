package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cinefeed/backend/internal/api"
	"github.com/cinefeed/backend/internal/middleware"
)

// SetupRouter configures the application routes.
func SetupRouter(
	chatHandler *api.ChatHandler,
	recommendHandler *api.RecommendHandler,
	proxyHandler *api.ProxyHandler,
	authHandler *api.AuthHandler,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.JSONRecovery())
	router.Use(middleware.CORS())

	// Ten posts per IP per minute; a no-op without Redis.
	postLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     10,
		KeyPrefix: "ratelimit:messages",
	})

	chatHandler.RegisterRoutes(router, postLimiter.Middleware())
	recommendHandler.RegisterRoutes(router)
	proxyHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
