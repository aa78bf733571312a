package handlers

import (
	"net/http"

	"github.com/cliquepay/cliquepay_backend/cmd/docs"
	portssvc "github.com/cliquepay/cliquepay_backend/internal/core/ports/services"
	"github.com/cliquepay/cliquepay_backend/internal/middleware"
	"github.com/cliquepay/cliquepay_backend/internal/utils"
	"github.com/cliquepay/cliquepay_backend/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouterOptions carries the optional infrastructure wired around the API.
// Nil fields are skipped.
type RouterOptions struct {
	Limiter        *limiter.Limiter
	Posthog        *utils.PosthogClientWrapper
	MetricsHandler http.Handler
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouterOptions,
) {
	registerValidators()

	r.GET("/health", getHealth)

	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, services, opts)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	service *portssvc.ServiceContainer,
	opts RouterOptions,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(service.Identity)}
	if opts.Limiter != nil {
		chain = append(chain, middleware.RateLimit(opts.Limiter))
	}
	chain = append(chain, middleware.PosthogMiddleware(opts.Posthog))
	v1 := r.Group("/api/v1", chain...)

	v1.GET("", getHome)
	registerExpenseRoutes(v1, service.Expense, opts.Posthog)
	registerPaymentRoutes(v1, service.Settlement, opts.Posthog)
	registerMeRoutes(v1, service.User, service.Financial)
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
