package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/controllers"
)

func SetupFriendRoutes(protected *gin.RouterGroup, friendController *controllers.FriendController) {
	friendsGroup := protected.Group("/friends")
	{
		friendsGroup.GET("", friendController.GetFriends)
		friendsGroup.GET("/suggestions", friendController.GetSuggestions)
		friendsGroup.GET("/pending", friendController.GetPendingRequests)
		friendsGroup.GET("/sent", friendController.GetSentRequests)
		friendsGroup.GET("/search", friendController.SearchUsers)
		friendsGroup.GET("/status/:userId", friendController.GetStatus)
		friendsGroup.GET("/mutual/:userId", friendController.GetMutualFriends)

		friendsGroup.POST("/request", friendController.SendRequest)
		friendsGroup.POST("/accept", friendController.AcceptRequest)
		friendsGroup.POST("/remove", friendController.RemoveFriend)
	}
}
