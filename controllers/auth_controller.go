package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/models"
	"github.com/snap-point/social-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB      *gorm.DB
	Tokens  *utils.TokenIssuer
	Avatars media.AvatarStorage
}

// NewAuthController builds the account handlers. avatars may be nil when no
// bucket is configured; stored avatar keys are then returned as they are.
func NewAuthController(db *gorm.DB, tokens *utils.TokenIssuer, avatars media.AvatarStorage) *AuthController {
	useJSONFieldNames()
	return &AuthController{DB: db, Tokens: tokens, Avatars: avatars}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender" binding:"omitempty,oneof=M F"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (ac *AuthController) userJSON(user models.User) gin.H {
	avatar := user.Avatar
	if ac.Avatars != nil {
		avatar = ac.Avatars.PublicURL(user.Avatar)
	}
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"gender":    user.Gender,
		"avatar":    avatar,
		"role":      user.Role.Name,
		"createdAt": user.CreatedAt,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing int64
	if err := ac.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		respondError(c, apperrors.Storage("check email", err))
		return
	}
	if existing > 0 {
		respondError(c, apperrors.Conflict("email already registered"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	var role models.Role
	if err := ac.DB.Where("name = ?", models.DefaultRoles[0]).First(&role).Error; err != nil {
		respondError(c, apperrors.Storage("load default role", err))
		return
	}

	user := models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Gender:    input.Gender,
		RoleID:    role.ID,
		Role:      role,
	}
	if err := ac.DB.Omit("Role").Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, apperrors.Conflict("email already registered"))
			return
		}
		respondError(c, apperrors.Storage("create user", err))
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    ac.userJSON(user),
		Message: "User registered successfully",
	})
}

func (ac *AuthController) issueTokens(c *gin.Context, user models.User, status int) {
	accessToken, err := ac.Tokens.AccessToken(user.ID, user.Role.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}
	refreshToken, expires, err := ac.Tokens.RefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	if err := ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: expires,
	}).Error; err != nil {
		respondError(c, apperrors.Storage("store refresh token", err))
		return
	}

	c.JSON(status, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          ac.userJSON(user),
		"success":       true,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ac.DB.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}

	ac.issueTokens(c, user, http.StatusOK)
}

// RefreshToken rotates a refresh token: the presented one is consumed and a
// new pair is issued.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		if err := ac.DB.Unscoped().Delete(&refreshToken).Error; err != nil {
			respondError(c, apperrors.Storage("delete expired refresh token", err))
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.Preload("Role").First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	// Only the request that deletes the row may rotate it.
	result := ac.DB.Unscoped().Where("id = ?", refreshToken.ID).Delete(&models.RefreshToken{})
	if result.Error != nil {
		respondError(c, apperrors.Storage("consume refresh token", result.Error))
		return
	}
	if result.RowsAffected != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	ac.issueTokens(c, user, http.StatusOK)
}

func (ac *AuthController) Logout(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}
	var input RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	result := ac.DB.Unscoped().
		Where("token = ? AND user_id = ?", input.RefreshToken, userID).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		respondError(c, apperrors.Storage("delete refresh token", result.Error))
		return
	}

	// An unknown token still logs out.
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, ok := caller(c)
	if !ok {
		return
	}

	var dbUser models.User
	if err := ac.DB.Preload("Role").First(&dbUser, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
			return
		}
		respondError(c, apperrors.Storage("load profile", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    ac.userJSON(dbUser),
	})
}
