package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/controllers"
	"github.com/snap-point/social-api/friends"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/middleware"
	"github.com/snap-point/social-api/utils"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB      *gorm.DB
	Friends *friends.Service
	Tokens  *utils.TokenIssuer
	// Avatars is nil when no bucket is configured; upload routes are then
	// not registered.
	Avatars media.AvatarStorage
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize controllers
	authController := controllers.NewAuthController(deps.DB, deps.Tokens, deps.Avatars)
	friendController := controllers.NewFriendController(deps.Friends)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/refresh-token", authController.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)

		SetupFriendRoutes(protected, friendController)
		if deps.Avatars != nil {
			SetupUploadRoutes(protected, controllers.NewUploadController(deps.DB, deps.Avatars))
		}
	}
}
