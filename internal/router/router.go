package router

import (
	"fmt"
	"strings"

	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/config"
	publichandlers "github.com/winappio/offerwall/internal/http/handlers/public"
	"github.com/winappio/offerwall/internal/logger"
	"github.com/winappio/offerwall/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ow"
	}
	redisClient := cache.Client()
	postbackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:postback", redisPrefix),
		WindowSeconds: cfg.Postback.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Postback.RateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Affiliate-facing callback. Networks send either verb depending on
	// their template engine.
	postbackLimit := RateLimitMiddleware(redisClient, postbackRule, KeyByIP)
	r.GET("/api/postback", postbackLimit, publicHandler.Postback)
	r.POST("/api/postback", postbackLimit, publicHandler.Postback)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", publicHandler.Health)

		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey))
		{
			user.POST("/clicks", publicHandler.TrackClick)
			user.GET("/clicks", publicHandler.ListClicks)
			user.GET("/clicks/:id", publicHandler.GetClick)
			user.GET("/me/stats", publicHandler.GetMyStats)
			user.GET("/me/completions", publicHandler.ListMyCompletions)
			user.GET("/ws/notifications", publicHandler.NotificationStream)
		}
	}

	return r
}
