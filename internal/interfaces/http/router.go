package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recovery  RecoveryService
	Users     UserAdmin
	Authz     Authorizer
	JWTSecret string
	// UniformResponses oculta si la cuenta existe en las solicitudes de recuperación.
	UniformResponses bool
	// RecoveryRateLimit peticiones por IP y minuto en /auth; 0 desactiva el límite.
	RecoveryRateLimit int
	// Metrics y Gatherer son opcionales: sin ellos no hay middleware ni /metrics.
	Metrics  HTTPObserver
	Gatherer prometheus.Gatherer
	Logger   *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")

	// Recuperación de contraseña (público, limitado por IP)
	authGroup := api.Group("/auth")
	if deps.RecoveryRateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        deps.RecoveryRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente en un minuto"})
			},
		}))
	}
	recoveryHandler := NewRecoveryHandler(deps.Recovery, deps.UniformResponses, deps.Logger)
	authGroup.Post("/forgot-password", recoveryHandler.RequestCode)
	authGroup.Post("/verify-otp", recoveryHandler.VerifyCode)
	authGroup.Post("/reset-password", recoveryHandler.ResetPassword)
	authGroup.Post("/forgot-password/email", recoveryHandler.RequestReset)
	authGroup.Post("/reset-token/check", recoveryHandler.CheckToken)
	authGroup.Post("/reset-password/email", recoveryHandler.CompleteReset)

	// Administración de usuarios (Bearer Token + permisos)
	admin := api.Group("/users/admin", AuthMiddleware(deps.JWTSecret))
	userHandler := NewUserHandler(deps.Users, deps.Logger)
	admin.Get("/all", RequirePermissions(deps.Authz, entity.PermissionViewUsers), userHandler.List)
	admin.Get("/stats", RequirePermissions(deps.Authz, entity.PermissionViewUsers), userHandler.Stats)
	admin.Patch("/:id/role", RequirePermissions(deps.Authz, entity.PermissionManageUsers), userHandler.ChangeRole)
}
