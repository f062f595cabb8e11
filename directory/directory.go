// Package directory resolves user ids to profile summaries and searches users
// by name or email.
package directory

import (
	"context"
	"strings"

	"github.com/snap-point/social-api/models"
)

type UserSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
}

type Directory interface {
	// GetUserSummary fails with apperrors.ErrNotFound when the user is absent.
	GetUserSummary(ctx context.Context, id uint) (UserSummary, error)

	// GetUserSummaries resolves every id or fails with ErrNotFound.
	GetUserSummaries(ctx context.Context, ids []uint) (map[uint]UserSummary, error)

	// SearchUsers returns up to limit users other than excludeID whose first
	// name, last name or email contains query, ignoring case, ordered by id.
	SearchUsers(ctx context.Context, query string, excludeID uint, limit int) ([]UserSummary, error)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching query anywhere, with the
// wildcard characters in query taken literally.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(models.FoldSearch(query)) + "%"
}
