package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TempAvatarPrefix = "temp/avatars/"
	MaxAvatarSize    = 5 * 1024 * 1024

	// AvatarUploadExpiry is how long a presigned avatar upload URL stays valid.
	AvatarUploadExpiry = 30 * time.Minute
)

var avatarContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ValidAvatar reports whether an upload of contentType and size may become an avatar.
func ValidAvatar(contentType string, size int64) bool {
	return avatarContentTypes[contentType] && size > 0 && size <= MaxAvatarSize
}

// TempAvatarKey is where userID uploads an avatar before confirming it.
func TempAvatarKey(userID uint, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s%d_%s%s", tempAvatarDir(userID), now.Unix(), uuid.NewString(), ext)
}

func tempAvatarDir(userID uint) string {
	return fmt.Sprintf("%s%d/", TempAvatarPrefix, userID)
}

func IsTempAvatarKey(key string) bool {
	return strings.HasPrefix(key, TempAvatarPrefix) && !strings.Contains(key, "..") && len(key) > len(TempAvatarPrefix)
}

// OwnsTempAvatarKey reports whether key is a temp avatar uploaded by userID.
func OwnsTempAvatarKey(userID uint, key string) bool {
	dir := tempAvatarDir(userID)
	return IsTempAvatarKey(key) && strings.HasPrefix(key, dir) && len(key) > len(dir)
}

// AvatarKey is where a confirmed avatar for userID lives.
func AvatarKey(userID uint, tempKey string, now time.Time) string {
	return fmt.Sprintf("users/%d/avatar/%d_avatar%s", userID, now.Unix(), filepath.Ext(tempKey))
}

// JoinPublicURL resolves ref against base. Absolute URLs pass through and an
// empty ref stays empty.
func JoinPublicURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if base == "" {
		return ref
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}
