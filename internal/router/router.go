// Package router wires every endpoint to its handler and applies the
// middleware stack: rate limiting globally, JWT auth on the private
// surface, role checks on the admin surface, and a Redis response
// cache on the read-heavy browse endpoints.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/farhandp/coworking-book/internal/config"
	"github.com/farhandp/coworking-book/internal/handler"
	"github.com/farhandp/coworking-book/internal/middleware"
	"github.com/farhandp/coworking-book/internal/model"
)

// Handlers collects the constructed handler set for registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	Reservations  *handler.ReservationHandler
	AdminRes      *handler.AdminReservationHandler
	Rooms         *handler.RoomHandler
	Payments      *handler.PaymentHandler
	Reviews       *handler.ReviewHandler
	Notifications *handler.NotificationHandler
	AdminUsers    *handler.AdminUserHandler
}

// RegisterRoutes attaches all routes to the echo instance. rdb may be
// nil, in which case the rate limiter and cache pass everything
// through.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Public surface. Logout only needs the refresh token in the body,
	// so it stays outside the JWT group.
	e.GET("/healthz", handler.Health)
	e.POST("/user", h.Auth.Register)
	e.GET("/user/:email", h.Auth.CheckEmail)
	e.GET("/user/password/:email", h.Auth.ResetPassword)
	e.POST("/login", h.Auth.Login)
	e.POST("/login/refresh", h.Auth.Refresh)
	e.POST("/logout", h.Auth.Logout)

	// Authenticated surface, any role.
	auth := e.Group("", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/coworking/available", h.Rooms.ListAvailable, cache)
	auth.GET("/profile", h.Auth.Profile)
	auth.POST("/profile/update", h.Auth.UpdateProfile)

	auth.POST("/reservasi", h.Reservations.Create)
	auth.GET("/reservasi/available", h.Reservations.ListAvailable, cache)
	auth.PUT("/reservasi/update", h.Reservations.Claim)
	auth.GET("/reservasi/reject/:reservation_id", h.Reservations.Cancel)
	auth.GET("/reservasi/user/:user_id", h.Reservations.ListByUser)
	auth.GET("/reservasi/all/:user_id", h.Reservations.ListByUser)

	auth.POST("/payment", h.Payments.Create)
	auth.GET("/payment/reservasi/:reservation_id", h.Payments.ListByReservation)

	auth.POST("/review", h.Reviews.Create)
	auth.GET("/review/room/:reservation_id", h.Reviews.ListByReservation, cache)

	auth.GET("/notifikasi/user/:user_id", h.Notifications.ListForUser)
	auth.POST("/notifikasi/:notification_id/read", h.Notifications.MarkRead)
	auth.GET("/notifikasi/unread/:user_id", h.Notifications.UnreadCount)

	// Admin surface.
	admin := e.Group("/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/dashboard/stats", h.AdminRes.Stats)

	admin.GET("/reservasi", h.AdminRes.ListAll)
	admin.GET("/reservasi/pending", h.AdminRes.ListPending)
	admin.PUT("/reservasi/:reservation_id/status", h.AdminRes.SetStatus)
	admin.DELETE("/reservasi/:reservation_id", h.AdminRes.Delete)

	admin.GET("/coworking", h.Rooms.List)
	admin.POST("/coworking", h.Rooms.Create)
	admin.GET("/coworking/:coworking_id", h.Rooms.Get)
	admin.PUT("/coworking/:coworking_id", h.Rooms.Update)
	admin.PATCH("/coworking/:coworking_id/status", h.Rooms.SetStatus)
	admin.DELETE("/coworking/:coworking_id", h.Rooms.Delete)

	admin.GET("/payments", h.Payments.ListAll)
	admin.GET("/payments/pending", h.Payments.ListPending)
	admin.GET("/payments/stats", h.Payments.Stats)
	admin.GET("/payments/:payment_id", h.Payments.Get)
	admin.POST("/payments/:payment_id/verify", h.Payments.Verify)
	admin.POST("/payments/:payment_id/reject", h.Payments.Reject)

	admin.GET("/users", h.AdminUsers.List)
	admin.POST("/users", h.AdminUsers.Create)
	admin.GET("/users/:user_id", h.AdminUsers.Get)
	admin.PUT("/users/:user_id", h.AdminUsers.Update)
	admin.DELETE("/users/:user_id", h.AdminUsers.Delete)
}
