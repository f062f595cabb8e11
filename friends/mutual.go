package friends

import (
	"context"
	"fmt"

	"github.com/snap-point/social-api/directory"
)

// intersect returns the ids present in both sets, ascending.
func intersect(a, b IDSet) []uint {
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make(IDSet)
	for id := range a {
		if b.Has(id) {
			common[id] = struct{}{}
		}
	}
	return common.Sorted()
}

func (s *Service) mutualIDs(ctx context.Context, cache *friendCache, x, y uint) ([]uint, error) {
	fx, err := cache.get(ctx, x)
	if err != nil {
		return nil, err
	}
	fy, err := cache.get(ctx, y)
	if err != nil {
		return nil, err
	}
	return intersect(fx, fy), nil
}

func (s *Service) MutualCount(ctx context.Context, x, y uint) (int, error) {
	ids, err := s.mutualIDs(ctx, s.newFriendCache(), x, y)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// MutualList returns the friends x and y share, ordered by id.
func (s *Service) MutualList(ctx context.Context, x, y uint) ([]directory.UserSummary, error) {
	ids, err := s.mutualIDs(ctx, s.newFriendCache(), x, y)
	if err != nil {
		return nil, err
	}
	return s.summaries(ctx, ids)
}

// summaries resolves ids in order. A missing user fails the whole call.
func (s *Service) summaries(ctx context.Context, ids []uint) ([]directory.UserSummary, error) {
	out := make([]directory.UserSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	byID, err := s.directory.GetUserSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}
