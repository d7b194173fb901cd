// Package router owns the gateway's URL space. The route table is static:
// three zones (public, member area behind the user guard, back office behind
// the admin guard) plus a catch-all. Adding a protected page means adding a
// line inside the guarded group; there is no per-page guard wiring to forget.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sillysavant/f1nance/internal/handlers"
	"github.com/sillysavant/f1nance/internal/middleware"
	"github.com/sillysavant/f1nance/internal/tokenstore"
	"github.com/sillysavant/f1nance/pkg/metrics"
)

// Deps carries everything the route table needs. Rate limiters are injected
// so tests can pass permissive ones.
type Deps struct {
	Stores tokenstore.Factory

	Pages     *handlers.PagesHandler
	Auth      *handlers.AuthHandler
	AdminAuth *handlers.AdminAuthHandler
	Dashboard *handlers.DashboardHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler
	Logs      *handlers.LogsHandler

	GeneralRateLimiter *middleware.RateLimiter
	AuthRateLimiter    *middleware.RateLimiter
}

// Register attaches the full route table to the engine.
func Register(r *gin.Engine, d Deps) {
	general := d.GeneralRateLimiter.Middleware()
	authLimited := d.AuthRateLimiter.Middleware()

	// Public zone
	r.GET("/", d.Pages.Index)
	r.GET("/healthz", general, d.Health.Healthcheck)
	r.GET("/metrics", general, gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.POST("/logs", general, middleware.BodySizeLimit(1*1024*1024), d.Logs.ReceiveFrontendLogs)

	auth := r.Group("/auth")
	auth.GET("", d.Auth.LoginPage)
	auth.POST("/login", authLimited, middleware.BodySizeLimit(100*1024), d.Auth.Login)
	auth.POST("/register", authLimited, middleware.BodySizeLimit(100*1024), d.Auth.Register)
	auth.GET("/verify-email", d.Auth.VerifyEmail)
	auth.POST("/resend-verification", authLimited, d.Auth.ResendVerification)
	auth.POST("/logout", d.Auth.Logout)

	adminAuth := r.Group("/admin/auth")
	adminAuth.GET("", d.AdminAuth.LoginPage)
	adminAuth.POST("/login", authLimited, middleware.BodySizeLimit(100*1024), d.AdminAuth.Login)
	adminAuth.POST("/logout", d.AdminAuth.Logout)

	// Member area: everything below /dashboard requires a stored user token
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.RequireUserSession(d.Stores))
	dashboard.GET("", d.Dashboard.Home)
	dashboard.GET("/profile", d.Dashboard.Profile)
	dashboard.POST("/profile", middleware.BodySizeLimit(100*1024), d.Dashboard.UpdateProfile)
	dashboard.GET("/expenses", d.Dashboard.Expenses)
	dashboard.POST("/expenses", middleware.BodySizeLimit(100*1024), d.Dashboard.CreateExpense)
	dashboard.GET("/income", d.Dashboard.Income)
	dashboard.GET("/documents", d.Dashboard.Documents)
	dashboard.GET("/tax-resources", d.Dashboard.TaxResources)
	dashboard.GET("/subscription", d.Dashboard.Subscription)

	// Back office: the admin guard only honors the admin token slots.
	// /admin/auth is registered above on its own group and stays public.
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdminSession(d.Stores))
	admin.GET("", d.Admin.Home)
	admin.GET("/users", d.Admin.Users)

	r.NoRoute(d.Pages.NotFound)
}
