// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/maison-order-desk/internal/config"
	"github.com/iliyamo/maison-order-desk/internal/handler"
	"github.com/iliyamo/maison-order-desk/internal/middleware"
	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/repository"
)

// RegisterRoutes registers routes that need no application wiring.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the full /api surface. Session resolution runs on
// every API route so handlers can always ask for the current scope;
// routes that mutate shared state add a RequireScope check on top.
// Order reads and writes stay public: the terminals in the staff
// areas are not individually authenticated, only the review and reset
// actions are.
func RegisterAPI(
	e *echo.Echo,
	auth *repository.AuthRepo,
	orders *handler.OrderHandler,
	pin *handler.PinHandler,
	validate *handler.ValidateHandler,
	rateCfg config.LoginRateConfig,
	rdb *redis.Client,
) {
	api := e.Group("/api")
	api.Use(middleware.ResolveSession(auth))

	elevated := middleware.RequireScope(model.ScopeOwner, model.ScopeChef)
	ownerOnly := middleware.RequireScope(model.ScopeOwner)

	// Draft orders.
	api.GET("/commandes", orders.GetAll)
	api.GET("/commandes/:department", orders.GetOne)
	api.POST("/commandes/:department", orders.Upsert)
	api.PUT("/commandes/:department", orders.Upsert)
	api.POST("/reset/:department", orders.ResetOne, elevated)
	api.POST("/reset-all", orders.ResetAll, elevated)

	// Validation workflow.
	api.POST("/validate", validate.Validate, elevated)
	api.GET("/validated", validate.GetValidated)
	api.POST("/validated/reset", validate.ResetValidated, elevated)

	// PIN and sessions. Login sits behind the per-IP token bucket.
	api.GET("/pin/status", pin.Status)
	api.POST("/pin/setup", pin.Setup)
	api.POST("/pin/login", pin.Login, middleware.LoginRateLimit(rateCfg, rdb))
	api.POST("/pin/logout", pin.Logout)
	api.GET("/pin/me", pin.Me)
	api.POST("/pin/reset-credential", pin.ResetCredential, ownerOnly)
}
