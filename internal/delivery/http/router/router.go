// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"loyalty/internal/delivery/http/middleware"
	"loyalty/internal/delivery/http/router/handler"
	"loyalty/internal/domain/constants"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler          *handler.UserHandler
	ProfileHandler       *handler.ProfileHandler
	MissionHandler       *handler.MissionHandler
	ParticipationHandler *handler.ParticipationHandler
	ReviewHandler        *handler.ReviewHandler
	RedemptionHandler    *handler.RedemptionHandler
	PointsHandler        *handler.PointsHandler
	DeviceHandler        *handler.DeviceHandler
	MediaHandler         *handler.MediaHandler
	AuthMiddleware       *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", p.UserHandler.Register)
		authGroup.POST("/login", p.UserHandler.Login)
		authGroup.POST("/refresh", p.UserHandler.RefreshToken)
		authGroup.POST("/logout", p.UserHandler.Logout)
	}

	// Member routes that require authentication
	memberGroup := e.Group("/api")
	memberGroup.Use(p.AuthMiddleware.Authenticate)
	{
		memberGroup.PUT("/auth/password", p.UserHandler.ChangePassword)

		memberGroup.GET("/profile", p.ProfileHandler.GetProfile)
		memberGroup.PUT("/profile", p.ProfileHandler.UpdateProfile)

		memberGroup.GET("/missions", p.MissionHandler.ListOpenMissions)
		memberGroup.GET("/missions/:id", p.MissionHandler.GetMission)

		memberGroup.POST("/participations", p.ParticipationHandler.Submit)
		memberGroup.GET("/participations", p.ParticipationHandler.ListMine)

		memberGroup.POST("/reviews", p.ReviewHandler.Create)
		memberGroup.GET("/reviews", p.ReviewHandler.List)
		memberGroup.GET("/reviews/:id", p.ReviewHandler.Get)
		memberGroup.PUT("/reviews/:id", p.ReviewHandler.Update)
		memberGroup.DELETE("/reviews/:id", p.ReviewHandler.Delete)
		memberGroup.POST("/reviews/:id/like", p.ReviewHandler.Like)
		memberGroup.DELETE("/reviews/:id/like", p.ReviewHandler.Unlike)
		memberGroup.POST("/reviews/:id/comments", p.ReviewHandler.AddComment)
		memberGroup.GET("/reviews/:id/comments", p.ReviewHandler.ListComments)
		memberGroup.DELETE("/reviews/comments/:commentID", p.ReviewHandler.DeleteComment)

		memberGroup.GET("/redemptions/items", p.RedemptionHandler.ListItems)
		memberGroup.POST("/redemptions/items/:id/redeem", p.RedemptionHandler.Redeem)
		memberGroup.GET("/redemptions/requests", p.RedemptionHandler.ListMyRequests)
		memberGroup.POST("/redemptions/requests/:id/cancel", p.RedemptionHandler.Cancel)
		memberGroup.GET("/redemptions/requests/:id/voucher", p.RedemptionHandler.GetVoucherQR)

		memberGroup.GET("/points/balance", p.PointsHandler.GetBalance)
		memberGroup.GET("/points/history", p.PointsHandler.GetHistory)

		memberGroup.POST("/devices", p.DeviceHandler.Register)
		memberGroup.PUT("/devices/:id/token", p.DeviceHandler.UpdateToken)
		memberGroup.DELETE("/devices/:id", p.DeviceHandler.Remove)

		memberGroup.POST("/media", p.MediaHandler.Upload)
	}

	// Back-office routes that require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(p.AuthMiddleware.Authenticate)
	adminGroup.Use(p.AuthMiddleware.RequireRole(constants.RoleAdmin))
	{
		adminGroup.GET("/users", p.ProfileHandler.ListUsers)
		adminGroup.PUT("/users/:id/roles", p.ProfileHandler.SetRoles)

		adminGroup.POST("/missions", p.MissionHandler.CreateMission)
		adminGroup.GET("/missions", p.MissionHandler.ListMissions)
		adminGroup.PUT("/missions/:id", p.MissionHandler.UpdateMission)
		adminGroup.DELETE("/missions/:id", p.MissionHandler.DeleteMission)

		adminGroup.GET("/participations", p.ParticipationHandler.ListModerated)
		adminGroup.POST("/participations/:id/approve", p.ParticipationHandler.Approve)
		adminGroup.POST("/participations/:id/reject", p.ParticipationHandler.Reject)

		adminGroup.POST("/redemptions/items", p.RedemptionHandler.CreateItem)
		adminGroup.PUT("/redemptions/items/:id", p.RedemptionHandler.UpdateItem)
		adminGroup.DELETE("/redemptions/items/:id", p.RedemptionHandler.DeleteItem)
		adminGroup.GET("/redemptions/requests", p.RedemptionHandler.ListRequests)
		adminGroup.POST("/redemptions/requests/:id/fulfill", p.RedemptionHandler.Fulfill)
		adminGroup.POST("/redemptions/requests/:id/cancel", p.RedemptionHandler.Cancel)
		adminGroup.POST("/redemptions/verify", p.RedemptionHandler.VerifyVoucher)

		adminGroup.POST("/users/:id/points/adjust", p.PointsHandler.Adjust)
		adminGroup.POST("/users/:id/points/reconcile", p.PointsHandler.Reconcile)

		adminGroup.DELETE("/media", p.MediaHandler.Delete)
	}
}
