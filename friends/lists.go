package friends

import (
	"context"
	"fmt"
	"time"

	"github.com/snap-point/social-api/directory"
	"github.com/snap-point/social-api/store"
)

type Friend struct {
	directory.UserSummary
	FriendshipDate time.Time `json:"friendshipDate"`
}

type PendingRequest struct {
	directory.UserSummary
	RequestDate time.Time `json:"requestDate"`
}

// ListFriends returns userID's friends, oldest friendship first.
func (s *Service) ListFriends(ctx context.Context, userID uint) ([]Friend, error) {
	edges, err := s.store.AcceptedEdges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.Other(userID))
	}
	users, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}

	out := make([]Friend, 0, len(edges))
	for i, e := range edges {
		out = append(out, Friend{UserSummary: users[i], FriendshipDate: e.CreatedAt})
	}
	return out, nil
}

// ListPendingIncoming returns the requesters waiting on userID, oldest first.
func (s *Service) ListPendingIncoming(ctx context.Context, userID uint) ([]PendingRequest, error) {
	edges, err := s.PendingIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.pendingRequests(ctx, edges, func(p store.Pending) uint { return p.Requester })
}

// ListPendingOutgoing returns the users userID is waiting on, oldest first.
func (s *Service) ListPendingOutgoing(ctx context.Context, userID uint) ([]PendingRequest, error) {
	edges, err := s.store.PendingOutgoing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sent requests of %d: %w", userID, err)
	}
	return s.pendingRequests(ctx, edges, func(p store.Pending) uint { return p.Recipient })
}

func (s *Service) pendingRequests(ctx context.Context, edges []store.Pending, counterpart func(store.Pending) uint) ([]PendingRequest, error) {
	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, counterpart(e))
	}
	users, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	out := make([]PendingRequest, 0, len(edges))
	for i, e := range edges {
		out = append(out, PendingRequest{UserSummary: users[i], RequestDate: e.CreatedAt})
	}
	return out, nil
}

// Relationship is how one user relates to another.
type Relationship struct {
	UserID        uint           `json:"userId"`
	Status        RelationStatus `json:"status"`
	MutualFriends int            `json:"mutualFriends"`
}

func (s *Service) RelationshipWith(ctx context.Context, callerID, otherID uint) (Relationship, error) {
	if err := requireTarget(otherID); err != nil {
		return Relationship{}, err
	}
	if _, err := s.directory.GetUserSummary(ctx, otherID); err != nil {
		return Relationship{}, fmt.Errorf("relationship: %w", err)
	}
	status, err := s.StatusBetween(ctx, callerID, otherID)
	if err != nil {
		return Relationship{}, err
	}
	mutual, err := s.MutualCount(ctx, callerID, otherID)
	if err != nil {
		return Relationship{}, err
	}
	return Relationship{UserID: otherID, Status: status, MutualFriends: mutual}, nil
}
