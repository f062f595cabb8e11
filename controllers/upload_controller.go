package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/middleware"
	"github.com/snap-point/social-api/models"
	"gorm.io/gorm"
)

type UploadController struct {
	DB      *gorm.DB
	Storage media.AvatarStorage
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(db *gorm.DB, storage media.AvatarStorage) *UploadController {
	useJSONFieldNames()
	return &UploadController{DB: db, Storage: storage}
}

func (uc *UploadController) GetAvatarUploadURL(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	if !media.ValidAvatar(req.ContentType, req.FileSize) {
		respondError(c, apperrors.Validation("Invalid avatar file type or size", map[string]string{
			"contentType": "must be a jpeg, png or webp image",
			"fileSize":    fmt.Sprintf("must be at most %d bytes", media.MaxAvatarSize),
		}))
		return
	}

	key := media.TempAvatarKey(userID, req.FileName, time.Now())
	uploadURL, err := uc.Storage.PresignUpload(c.Request.Context(), key, req.ContentType, media.AvatarUploadExpiry)
	if err != nil {
		slog.Error("presign avatar upload", "request_id", middleware.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: uploadURL,
			FileURL:   uc.Storage.PublicURL(key),
			Key:       key,
			ExpiresIn: int(media.AvatarUploadExpiry / time.Second),
		},
		Message: "Temporary avatar upload URL generated successfully",
	})
}

// ConfirmAvatarUpload moves an uploaded temp object to the caller's avatar
// location and records it on the user.
func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var req AvatarConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	key, err := confirmAvatar(c, uc.DB, uc.Storage, userID, req.TempKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"key":     key,
			"fileUrl": uc.Storage.PublicURL(key),
			"userId":  userID,
		},
		Message: "Avatar upload confirmed successfully",
	})
}

func (uc *UploadController) CleanupTempAvatar(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	tempKey := c.Query("key")
	if err := checkTempAvatarKey(userID, tempKey, "key"); err != nil {
		respondError(c, err)
		return
	}

	if err := uc.Storage.Delete(c.Request.Context(), tempKey); err != nil {
		slog.Error("cleanup temp avatar", "request_id", middleware.RequestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cleanup temporary file", "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: "Temporary avatar cleaned up successfully",
	})
}

// confirmAvatar promotes tempKey to userID's avatar and returns the new key.
// The previous avatar object is removed when it belonged to this user.
func confirmAvatar(c *gin.Context, db *gorm.DB, storage media.AvatarStorage, userID uint, tempKey string) (string, error) {
	ctx := c.Request.Context()
	if err := checkTempAvatarKey(userID, tempKey, "tempKey"); err != nil {
		return "", err
	}

	exists, err := storage.Exists(ctx, tempKey)
	if err != nil {
		return "", apperrors.Storage("check temp avatar", err)
	}
	if !exists {
		return "", apperrors.NotFound("Temporary avatar file not found")
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("user %d not found", userID)
		}
		return "", apperrors.Storage("load user", err)
	}

	key := media.AvatarKey(userID, tempKey, time.Now())
	if err := storage.Move(ctx, tempKey, key); err != nil {
		return "", apperrors.Storage("move avatar", err)
	}
	if err := db.WithContext(ctx).Model(&user).Update("avatar", key).Error; err != nil {
		return "", apperrors.Storage("save avatar", err)
	}

	if user.Avatar != key {
		removePreviousAvatar(ctx, c, storage, userID, user.Avatar)
	}
	return key, nil
}

// checkTempAvatarKey rejects malformed keys and keys uploaded by someone else.
func checkTempAvatarKey(userID uint, key, field string) error {
	if !media.IsTempAvatarKey(key) {
		return apperrors.Validation("Invalid temp key format", map[string]string{field: "must be a temporary avatar key"})
	}
	if !media.OwnsTempAvatarKey(userID, key) {
		return apperrors.NotAuthorized("temporary avatar belongs to another user")
	}
	return nil
}

func removePreviousAvatar(ctx context.Context, c *gin.Context, storage media.AvatarStorage, userID uint, previous string) {
	if previous == "" || !strings.HasPrefix(previous, fmt.Sprintf("users/%d/avatar/", userID)) {
		return
	}
	if err := storage.Delete(ctx, previous); err != nil {
		slog.Warn("delete previous avatar", "request_id", middleware.RequestID(c), "key", previous, "error", err)
	}
}
