package directory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/config"
	"github.com/snap-point/social-api/media"
	"github.com/snap-point/social-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var people = []UserSummary{
	{ID: 1, FirstName: "Alice", LastName: "Durand", Email: "alice@example.com", Role: models.RoleUser},
	{ID: 2, FirstName: "Martin", LastName: "Leroy", Email: "mleroy@example.com", Role: models.RoleUser},
	{ID: 3, FirstName: "Marie", LastName: "Petit", Email: "marie.p@example.com", Role: models.RoleModerator},
	{ID: 4, FirstName: "Paul", LastName: "Bernard", Email: "paul@example.com", Role: models.RoleUser},
	{ID: 5, FirstName: "Zoe", LastName: "100%_real", Email: "zoe@example.com", Role: models.RoleAdmin},
	{ID: 6, FirstName: "Élodie", LastName: "Lefèvre", Email: "elodie@example.com", Role: models.RoleUser},
}

func newGormDirectory(t *testing.T) Directory {
	t.Helper()
	db, err := config.InitDB(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	roles := map[string]uint{}
	var seeded []models.Role
	require.NoError(t, db.Find(&seeded).Error)
	for _, r := range seeded {
		roles[r.Name] = r.ID
	}

	for _, p := range people {
		user := models.User{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Password:  "x",
			RoleID:    roles[p.Role],
		}
		if p.ID == 1 {
			user.Avatar = "users/1/avatar/a.png"
		}
		require.NoError(t, db.Create(&user).Error)
		require.Equal(t, p.ID, user.ID)
	}
	return NewGormDirectory(db, media.StaticURL("https://cdn.example"))
}

func newMemoryDirectory(t *testing.T) Directory {
	d := NewMemoryDirectory(people...)
	alice := people[0]
	alice.Avatar = "https://cdn.example/users/1/avatar/a.png"
	d.Put(alice)
	return d
}

func TestDirectories(t *testing.T) {
	impls := map[string]func(*testing.T) Directory{
		"gorm":   newGormDirectory,
		"memory": newMemoryDirectory,
	}
	for name, newDirectory := range impls {
		t.Run(name, func(t *testing.T) {
			runDirectoryTests(t, newDirectory(t))
		})
	}
}

func ids(users []UserSummary) []uint {
	out := make([]uint, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func runDirectoryTests(t *testing.T, d Directory) {
	ctx := context.Background()

	t.Run("summary", func(t *testing.T) {
		u, err := d.GetUserSummary(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.FirstName)
		assert.Equal(t, "https://cdn.example/users/1/avatar/a.png", u.Avatar)
		assert.Equal(t, models.RoleUser, u.Role)

		_, err = d.GetUserSummary(ctx, 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("summaries", func(t *testing.T) {
		got, err := d.GetUserSummaries(ctx, []uint{3, 2, 3})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "Marie", got[3].FirstName)
		assert.Equal(t, models.RoleModerator, got[3].Role)

		_, err = d.GetUserSummaries(ctx, []uint{2, 99})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		empty, err := d.GetUserSummaries(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	tests := []struct {
		name    string
		query   string
		exclude uint
		limit   int
		want    []uint
	}{
		{"case insensitive prefix", "ma", 1, 20, []uint{2, 3}},
		{"upper case query", "MAR", 1, 20, []uint{2, 3}},
		{"matches email", "mleroy", 1, 20, []uint{2}},
		{"excludes caller", "ma", 2, 20, []uint{3}},
		{"limit", "example", 1, 2, []uint{2, 3}},
		{"percent is literal", "%", 1, 20, []uint{5}},
		{"underscore is literal", "0%_r", 1, 20, []uint{5}},
		{"accented mixed case", "éL", 1, 20, []uint{6}},
		{"accented upper case", "LEFÈVRE", 1, 20, []uint{6}},
		{"accent is not stripped", "lefevre", 1, 20, []uint{}},
		{"no match", "xyz", 1, 20, []uint{}},
	}
	for _, tt := range tests {
		t.Run("search "+tt.name, func(t *testing.T) {
			got, err := d.SearchUsers(ctx, tt.query, tt.exclude, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
