package main

import (
	"github.com/gin-gonic/gin"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/handlers"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	moderatorAuthHandler *handlers.ModeratorAuthHandler
	moderatorHandler     *handlers.ModeratorHandler
	userSessions         middleware.UserSessionValidator
	moderatorSessions    middleware.ModeratorSessionValidator
	sharedSecret         gin.HandlerFunc
	otpRateLimit         gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	requireUser := middleware.RequireUserSession(d.userSessions)
	requireModerator := middleware.RequireModeratorSession(d.moderatorSessions)

	// User auth
	auth := r.Group("/auth")
	{
		otp := auth.Group("/otp", d.otpRateLimit)
		otp.POST("/send", d.authHandler.SendOtp)
		otp.POST("/verify", d.authHandler.VerifyOtp)

		auth.POST("/logout", d.authHandler.Logout)
		auth.GET("/me", requireUser, d.authHandler.Me)
	}

	users := r.Group("/users")
	{
		users.PATCH("/me", requireUser, d.authHandler.UpdateProfile)
		users.GET("/viewer", middleware.OptionalUserSession(d.userSessions), d.authHandler.Viewer)
	}

	// Moderator auth
	modAuth := r.Group("/moderator-auth")
	{
		otp := modAuth.Group("/otp", d.otpRateLimit)
		otp.POST("/send", d.moderatorAuthHandler.SendOtp)
		otp.POST("/verify", d.moderatorAuthHandler.VerifyOtp)

		modAuth.POST("/logout", d.sharedSecret, d.moderatorAuthHandler.Logout)
		modAuth.GET("/me", d.sharedSecret, requireModerator, d.moderatorAuthHandler.Me)
	}

	// Moderation
	moderator := r.Group("/moderator")
	{
		moderator.POST("/seed", d.sharedSecret, d.moderatorHandler.Seed)

		managed := moderator.Group("/users", requireModerator)
		managed.GET("", d.moderatorHandler.ListUsers)
		managed.POST("/:id/ban", d.moderatorHandler.BanUser)
		managed.POST("/:id/unban", d.moderatorHandler.UnbanUser)
		managed.DELETE("/:id", d.moderatorHandler.DeleteUser)
	}
}
