package directory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/models"
)

// MemoryDirectory is a Directory over a fixed set of summaries.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[uint]UserSummary
}

func NewMemoryDirectory(users ...UserSummary) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[uint]UserSummary, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *MemoryDirectory) Put(u UserSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MemoryDirectory) GetUserSummary(ctx context.Context, id uint) (UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return UserSummary{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return UserSummary{}, apperrors.NotFound("user %d not found", id)
	}
	return u, nil
}

func (d *MemoryDirectory) GetUserSummaries(ctx context.Context, ids []uint) (map[uint]UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[uint]UserSummary, len(ids))
	for _, id := range ids {
		u, ok := d.users[id]
		if !ok {
			return nil, apperrors.NotFound("user %d not found", id)
		}
		out[id] = u
	}
	return out, nil
}

func (d *MemoryDirectory) SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := models.FoldSearch(query)

	d.mu.RLock()
	var out []UserSummary
	for _, u := range d.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(models.FoldSearch(u.FirstName), needle) ||
			strings.Contains(models.FoldSearch(u.LastName), needle) ||
			strings.Contains(models.FoldSearch(u.Email), needle) {
			out = append(out, u)
		}
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
