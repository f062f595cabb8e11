package media

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/snap-point/social-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAvatar(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		want        bool
	}{
		{"png", "image/png", 1024, true},
		{"webp at limit", "image/webp", MaxAvatarSize, true},
		{"too large", "image/jpeg", MaxAvatarSize + 1, false},
		{"empty", "image/jpeg", 0, false},
		{"video", "video/mp4", 1024, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAvatar(tt.contentType, tt.size))
		})
	}
}

func TestAvatarKeys(t *testing.T) {
	now := time.Unix(1700000000, 0)

	temp := TempAvatarKey(42, "Me.PNG", now)
	assert.True(t, strings.HasPrefix(temp, "temp/avatars/42/1700000000_"))
	assert.True(t, strings.HasSuffix(temp, ".png"))
	assert.True(t, IsTempAvatarKey(temp))
	assert.True(t, OwnsTempAvatarKey(42, temp))
	assert.False(t, OwnsTempAvatarKey(4, temp))
	assert.False(t, OwnsTempAvatarKey(7, temp))

	assert.Equal(t, "users/42/avatar/1700000000_avatar.png", AvatarKey(42, temp, now))

	assert.False(t, IsTempAvatarKey("users/42/avatar/x.png"))
	assert.False(t, IsTempAvatarKey("temp/avatars/../../secrets"))
	assert.False(t, IsTempAvatarKey(TempAvatarPrefix))
	assert.False(t, OwnsTempAvatarKey(42, "temp/avatars/42/"))
	assert.False(t, OwnsTempAvatarKey(42, "temp/avatars/42/../7/x.png"))
	assert.False(t, OwnsTempAvatarKey(42, "temp/avatars/420/x.png"))
}

func TestJoinPublicURL(t *testing.T) {
	assert.Equal(t, "", JoinPublicURL("https://cdn.example", ""))
	assert.Equal(t, "https://cdn.example/users/1/a.png", JoinPublicURL("https://cdn.example/", "users/1/a.png"))
	assert.Equal(t, "https://gravatar.example/x", JoinPublicURL("https://cdn.example", "https://gravatar.example/x"))
	assert.Equal(t, "users/1/a.png", JoinPublicURL("", "users/1/a.png"))
	assert.Equal(t, "https://cdn.example/a.png", StaticURL("https://cdn.example").PublicURL("a.png"))
}

func TestPresignUploadIsOffline(t *testing.T) {
	storage := NewR2Storage(config.R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "avatars",
		PublicURL:       "https://cdn.example",
		Region:          "auto",
	})

	url, err := storage.PresignUpload(context.Background(), "temp/avatars/1_x.png", "image/png", AvatarUploadExpiry)
	require.NoError(t, err)
	assert.Contains(t, url, "acct.r2.cloudflarestorage.com")
	assert.Contains(t, url, "temp/avatars/1_x.png")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Equal(t, "https://cdn.example/users/1/avatar/a.png", storage.PublicURL("users/1/avatar/a.png"))
}
