package friends

import (
	"context"
	"fmt"
	"sort"

	"github.com/snap-point/social-api/directory"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Suggestion struct {
	directory.UserSummary
	MutualFriends     int                     `json:"mutualFriends"`
	MutualFriendsList []directory.UserSummary `json:"mutualFriendsList"`
}

type candidate struct {
	id     uint
	mutual []uint
}

// Suggestions ranks friends of userID's friends who are neither userID nor
// already friends, by number of mutual friends and then by id. At most
// SuggestionLimit are returned.
func (s *Service) Suggestions(ctx context.Context, userID uint) (_ []Suggestion, err error) {
	ctx, span := s.tracer.Start(ctx, "friends.Suggestions")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	cache := s.newFriendCache()
	friends, err := cache.get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}

	seen := make(map[uint]struct{})
	var candidates []candidate
	for _, f := range friends.Sorted() {
		fof, err := cache.get(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("suggestions: %w", err)
		}
		for _, c := range fof.Sorted() {
			if c == userID || friends.Has(c) {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}

			mutual, err := s.mutualIDs(ctx, cache, userID, c)
			if err != nil {
				return nil, fmt.Errorf("suggestions: %w", err)
			}
			candidates = append(candidates, candidate{id: c, mutual: mutual})
		}
	}
	s.metrics.ObserveCandidates(len(candidates))
	span.SetAttributes(attribute.Int("suggestions.candidates", len(candidates)))

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].mutual) != len(candidates[j].mutual) {
			return len(candidates[i].mutual) > len(candidates[j].mutual)
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > SuggestionLimit {
		candidates = candidates[:SuggestionLimit]
	}

	ids := make([]uint, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
		ids = append(ids, preview(c.mutual)...)
	}
	var users map[uint]directory.UserSummary
	if len(ids) > 0 {
		users, err = s.directory.GetUserSummaries(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("suggestions: %w", err)
		}
	}

	out := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		list := make([]directory.UserSummary, 0, MutualPreviewLimit)
		for _, id := range preview(c.mutual) {
			list = append(list, users[id])
		}
		out = append(out, Suggestion{
			UserSummary:       users[c.id],
			MutualFriends:     len(c.mutual),
			MutualFriendsList: list,
		})
	}
	return out, nil
}

func preview(ids []uint) []uint {
	if len(ids) > MutualPreviewLimit {
		return ids[:MutualPreviewLimit]
	}
	return ids
}
