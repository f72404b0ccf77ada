// Package httpapi implements routing paths. Each services in own file.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/school-management-toolkit/registrar/config"
	v1 "github.com/school-management-toolkit/registrar/internal/controller/httpapi/v1"
	"github.com/school-management-toolkit/registrar/internal/usecase"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

// NewRouter -.
func NewRouter(handler *gin.Engine, l logger.Interface, t *usecase.Usecases, cfg *config.Config) {
	// Options
	handler.Use(gin.Logger())
	handler.Use(gin.Recovery())

	// Add Prometheus middleware for automatic HTTP metrics
	// Don't automatically register /metrics endpoint - we have our own
	p := ginprometheus.NewPrometheus("gin")
	p.MetricsPath = ""
	// Use middleware function directly without calling Use() which would register conflicting routes
	handler.Use(p.HandlerFunc())

	// Public routes
	authRoutes := v1.NewAuthRoutes(t.Auth, l)
	handler.POST("/api/v1/authorize", authRoutes.Login)
	handler.POST("/api/v1/logout", authRoutes.Logout)

	// K8s probe
	handler.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Prometheus metrics
	handler.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// version info
	vr := v1.NewVersionRoute(cfg)
	handler.GET("/version", vr.VersionHandler)

	// Protected routes behind the session middleware
	protected := handler.Group("/api", authRoutes.SessionMiddleware())

	h := protected.Group("/v1")
	{
		h.GET("/session", authRoutes.Session)
		h.POST("/password", authRoutes.ChangePassword)
	}
}
