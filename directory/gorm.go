package directory

import (
	"context"
	"errors"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/models"
	"gorm.io/gorm"
)

// GormDirectory reads users from the users table.
type GormDirectory struct {
	DB      *gorm.DB
	Avatars media.URLResolver
}

func NewGormDirectory(db *gorm.DB, avatars media.URLResolver) *GormDirectory {
	return &GormDirectory{DB: db, Avatars: avatars}
}

func (d *GormDirectory) summary(u models.User) UserSummary {
	avatar := u.Avatar
	if d.Avatars != nil {
		avatar = d.Avatars.PublicURL(u.Avatar)
	}
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    avatar,
		Role:      u.Role.Name,
	}
}

func (d *GormDirectory) GetUserSummary(ctx context.Context, id uint) (UserSummary, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserSummary{}, apperrors.NotFound("user %d not found", id)
		}
		return UserSummary{}, apperrors.Storage("load user", err)
	}
	return d.summary(user), nil
}

func (d *GormDirectory) GetUserSummaries(ctx context.Context, ids []uint) (map[uint]UserSummary, error) {
	ids = uniqueIDs(ids)
	out := make(map[uint]UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := d.DB.WithContext(ctx).Preload("Role").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperrors.Storage("load users", err)
	}
	for _, u := range users {
		out[u.ID] = d.summary(u)
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, apperrors.NotFound("user %d not found", id)
		}
	}
	return out, nil
}

func (d *GormDirectory) SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]UserSummary, error) {
	pattern := containsPattern(query)

	var users []models.User
	err := d.DB.WithContext(ctx).
		Preload("Role").
		Where("id <> ?", excludeID).
		Where(`(search_first_name LIKE ? ESCAPE '\' OR search_last_name LIKE ? ESCAPE '\' OR search_email LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Storage("search users", err)
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, d.summary(u))
	}
	return out, nil
}
