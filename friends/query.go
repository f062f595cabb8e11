package friends

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/store"
)

// RelationStatus is the relationship between two users seen from the first.
type RelationStatus string

const (
	RelationNone            RelationStatus = "none"
	RelationPendingOutgoing RelationStatus = "pending_outgoing"
	RelationPendingIncoming RelationStatus = "pending_incoming"
	RelationAccepted        RelationStatus = "accepted"
)

type IDSet map[uint]struct{}

func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []uint {
	out := make([]uint, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FriendsOf returns the users sharing an accepted edge with userID.
func (s *Service) FriendsOf(ctx context.Context, userID uint) (IDSet, error) {
	edges, err := s.store.AcceptedEdges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", userID, err)
	}
	set := make(IDSet, len(edges))
	for _, e := range edges {
		if other := e.Other(userID); other != userID {
			set[other] = struct{}{}
		}
	}
	return set, nil
}

// PendingIncoming lists requests waiting on userID, oldest first.
func (s *Service) PendingIncoming(ctx context.Context, userID uint) ([]store.Pending, error) {
	edges, err := s.store.PendingIncoming(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("pending requests of %d: %w", userID, err)
	}
	return edges, nil
}

func (s *Service) StatusBetween(ctx context.Context, x, y uint) (RelationStatus, error) {
	if x == y {
		return RelationNone, nil
	}
	edge, err := s.store.FindEdge(ctx, x, y)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return RelationNone, nil
		}
		return "", fmt.Errorf("status between %d and %d: %w", x, y, err)
	}
	return relationFrom(edge, x), nil
}

func relationFrom(edge store.Edge, viewer uint) RelationStatus {
	switch e := edge.(type) {
	case store.Accepted:
		return RelationAccepted
	case store.Pending:
		if e.Requester == viewer {
			return RelationPendingOutgoing
		}
		return RelationPendingIncoming
	}
	return RelationNone
}

// friendCache memoizes friend sets for the duration of one computation.
type friendCache struct {
	svc  *Service
	sets map[uint]IDSet
}

func (s *Service) newFriendCache() *friendCache {
	return &friendCache{svc: s, sets: make(map[uint]IDSet)}
}

func (c *friendCache) get(ctx context.Context, userID uint) (IDSet, error) {
	if set, ok := c.sets[userID]; ok {
		return set, nil
	}
	set, err := c.svc.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.sets[userID] = set
	return set, nil
}
