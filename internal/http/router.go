package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"devops-gateway/internal/metrics"
	"devops-gateway/internal/service"
)

// NewRouter wires middlewares and routes for the gateway.
func NewRouter(
	logger *zap.Logger,
	verifier *service.TokenVerifier,
	authH *AuthHandler,
	chatH *ChatHandler,
	deployH *DeploymentsHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	r.Use(
		RequestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		metricsMiddleware(),
		corsMiddleware(allowedOrigins),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "DevOps Assistant Gateway is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)
	auth.GET("/profile/:id", AuthRequired(verifier), authH.GetProfile)

	chat := r.Group("/api/v1/chat")
	chat.GET("/health", chatH.Health)
	chat.POST("", AuthRequired(verifier), chatH.Chat)
	chat.GET("/conversations/:id", AuthRequired(verifier), chatH.GetConversation)

	deployments := r.Group("/api/v1/deployments", AuthRequired(verifier))
	deployments.POST("/repo-info", deployH.RepoInfo)

	return r
}

// zapLoggerMiddleware logs one line per request with the trace identifier.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
		)
	}
}

// metricsMiddleware records Prometheus request counters and latencies. Route
// templates keep label cardinality bounded.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if strings.HasPrefix(path, "/metrics") {
			return
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", requestIDHeader)
	return cors.New(cfg)
}
