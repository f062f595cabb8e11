package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/snap-point/social-api/config"
	"github.com/snap-point/social-api/directory"
	"github.com/snap-point/social-api/friends"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/middleware"
	"github.com/snap-point/social-api/models"
	"github.com/snap-point/social-api/store"
	"github.com/snap-point/social-api/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "secret123"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	tokens  *utils.TokenIssuer
	storage *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.InitDB(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	env := &testEnv{
		db:      db,
		tokens:  utils.NewTokenIssuer("test-secret", time.Minute, time.Hour),
		storage: newFakeStorage(),
	}

	svc := friends.NewService(store.NewGormStore(db), directory.NewGormDirectory(db, env.storage), nil)
	auth := NewAuthController(db, env.tokens, env.storage)
	fc := NewFriendController(svc)
	uc := NewUploadController(db, env.storage)

	r := gin.New()
	r.Use(middleware.RequestLogger(discardLogger()))
	api := r.Group("/api")
	api.POST("/register", auth.Register)
	api.POST("/login", auth.Login)
	api.POST("/refresh-token", auth.RefreshToken)

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(env.tokens))
	protected.POST("/logout", auth.Logout)
	protected.GET("/profile", auth.GetProfile)
	protected.GET("/friends", fc.GetFriends)
	protected.GET("/friends/suggestions", fc.GetSuggestions)
	protected.GET("/friends/pending", fc.GetPendingRequests)
	protected.GET("/friends/sent", fc.GetSentRequests)
	protected.GET("/friends/search", fc.SearchUsers)
	protected.GET("/friends/status/:userId", fc.GetStatus)
	protected.GET("/friends/mutual/:userId", fc.GetMutualFriends)
	protected.POST("/friends/request", fc.SendRequest)
	protected.POST("/friends/accept", fc.AcceptRequest)
	protected.POST("/friends/remove", fc.RemoveFriend)
	protected.POST("/upload/avatar/presigned-url", uc.GetAvatarUploadURL)
	protected.POST("/upload/avatar/confirm", uc.ConfirmAvatarUpload)
	protected.DELETE("/upload/avatar/temp", uc.CleanupTempAvatar)

	env.router = r
	return env
}

// seedUser inserts a user with testPassword and returns its id.
func (e *testEnv) seedUser(t *testing.T, firstName, email string) uint {
	t.Helper()
	roleID, err := config.DefaultRoleID(e.db)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{FirstName: firstName, Email: email, Password: string(hash), RoleID: roleID}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *testEnv) token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := e.tokens.AccessToken(userID, models.RoleUser)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func dataList(t *testing.T, w *httptest.ResponseRecorder) []any {
	t.Helper()
	body := decode(t, w)
	list, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %s", w.Body.String())
	return list
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]bool
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (f *fakeStorage) put(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = true
}

func (f *fakeStorage) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

func (f *fakeStorage) PublicURL(ref string) string {
	return media.JoinPublicURL("https://cdn.example", ref)
}

func (f *fakeStorage) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://upload.example/" + key + "?signature=x", nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	return f.has(key), nil
}

func (f *fakeStorage) Move(_ context.Context, sourceKey, destKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, sourceKey)
	f.objects[destKey] = true
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}
