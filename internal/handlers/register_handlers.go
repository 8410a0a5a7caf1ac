package handlers

import (
	"net/http"

	"github.com/SscSPs/momo_backend/cmd/docs"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/middleware"
	"github.com/SscSPs/momo_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RateLimiters holds the per-IP limiters. A nil limiter disables limiting
// for its routes.
type RateLimiters struct {
	Auth *limiter.Limiter
	API  *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiters RateLimiters,
) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, services, limiters)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer, limiters RateLimiters) {
	public := r.Group("/api/v1")
	protected := r.Group("/api/v1", middleware.AuthMiddleware(services.Token), rateLimit(limiters.API))

	registerAuthRoutes(public, protected, services, rateLimit(limiters.Auth))
	registerUserRoutes(protected, services.User)
	registerTransactionRoutes(protected, services.Transaction)
	registerCardRoutes(protected, services.Card)
}

func rateLimit(l *limiter.Limiter) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(l)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
