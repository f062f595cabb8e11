package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/social-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":     "Nina@Example.com",
		"password":  "hunter22",
		"firstName": "Nina",
		"lastName":  "Moreau",
		"gender":    "F",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "nina@example.com", user["email"])
	assert.Equal(t, models.RoleUser, user["role"])
	assert.NotContains(t, w.Body.String(), "hunter22")

	w = env.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email": "nina@example.com", "password": "another1", "firstName": "Nina",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "nina@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "nina@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	access := body["access_token"].(string)
	refresh := body["refresh_token"].(string)
	assert.Equal(t, "Bearer", body["token_type"])

	w = env.do(t, http.MethodGet, "/api/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Nina", profile["firstName"])
	assert.Equal(t, "Moreau", profile["lastName"])

	// Refreshing consumes the presented token.
	w = env.do(t, http.MethodPost, "/api/refresh-token", "", gin.H{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decode(t, w)["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	w = env.do(t, http.MethodPost, "/api/refresh-token", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/logout", access, gin.H{"refresh_token": rotated})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/refresh-token", "", gin.H{"refresh_token": rotated})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email": "not-an-email", "password": "123", "gender": "X",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])
	assert.Equal(t, "is required", fields["firstName"])
	assert.Equal(t, "must be one of: M F", fields["gender"])
}

func TestRegisterIgnoresAvatarTempKey(t *testing.T) {
	env := newTestEnv(t)
	env.storage.put("temp/avatars/1/1_abc.png")

	w := env.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":         "leo@example.com",
		"password":      "hunter22",
		"firstName":     "Leo",
		"avatarTempKey": "temp/avatars/1/1_abc.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Empty(t, decode(t, w)["data"].(map[string]any)["avatar"])
	assert.True(t, env.storage.has("temp/avatars/1/1_abc.png"))
}

func TestRefreshTokenConsumedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	id := env.seedUser(t, "Alice", "alice@example.com")

	w := env.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refresh := decode(t, w)["refresh_token"].(string)

	// Another request rotates the same token between lookup and delete.
	require.NoError(t, env.db.Callback().Delete().Before("gorm:delete").Register("test:rotate_elsewhere", func(tx *gorm.DB) {
		if tx.Statement.Table == "refresh_tokens" {
			tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM refresh_tokens WHERE user_id = ?", id)
		}
	}))

	w = env.do(t, http.MethodPost, "/api/refresh-token", "", gin.H{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	assert.NotContains(t, decode(t, w), "access_token")

	var remaining int64
	require.NoError(t, env.db.Model(&models.RefreshToken{}).Where("user_id = ?", id).Count(&remaining).Error)
	assert.Zero(t, remaining)
}
