package friends

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/directory"
)

type SearchResult struct {
	directory.UserSummary
	FriendshipStatus  RelationStatus `json:"friendshipStatus"`
	IsFriend          bool           `json:"isFriend"`
	HasPendingRequest bool           `json:"hasPendingRequest"`
	MutualFriends     int            `json:"mutualFriends"`
}

// Search finds up to SearchLimit users matching query and annotates each one
// with its relationship to callerID.
func (s *Service) Search(ctx context.Context, callerID uint, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, apperrors.Validation("invalid search query", map[string]string{
			"query": fmt.Sprintf("must be at least %d characters", MinQueryLength),
		})
	}

	matches, err := s.directory.SearchUsers(ctx, query, callerID, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	s.metrics.ObserveSearchResults(len(matches))

	cache := s.newFriendCache()
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		status, err := s.StatusBetween(ctx, callerID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		mutual, err := s.mutualIDs(ctx, cache, callerID, m.ID)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		out = append(out, SearchResult{
			UserSummary:       m,
			FriendshipStatus:  status,
			IsFriend:          status == RelationAccepted,
			HasPendingRequest: status == RelationPendingIncoming || status == RelationPendingOutgoing,
			MutualFriends:     len(mutual),
		})
	}
	return out, nil
}
