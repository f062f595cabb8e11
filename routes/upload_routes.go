package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		upload.POST("/avatar/presigned-url", uploadController.GetAvatarUploadURL)
		upload.POST("/avatar/confirm", uploadController.ConfirmAvatarUpload)
		upload.DELETE("/avatar/temp", uploadController.CleanupTempAvatar)
	}
}
