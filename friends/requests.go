package friends

import (
	"context"
	"fmt"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/store"
)

func requireTarget(id uint) error {
	if id == 0 {
		return apperrors.Validation("invalid request", map[string]string{"user_id": "is required"})
	}
	return nil
}

// SendRequest creates a pending edge from callerID to targetID.
func (s *Service) SendRequest(ctx context.Context, callerID, targetID uint) (p store.Pending, err error) {
	defer func() { s.metrics.ObserveTransition("request", err) }()

	if err := requireTarget(targetID); err != nil {
		return store.Pending{}, err
	}
	if callerID == targetID {
		return store.Pending{}, apperrors.Conflict("cannot send a friend request to yourself")
	}
	if _, err := s.directory.GetUserSummary(ctx, targetID); err != nil {
		return store.Pending{}, fmt.Errorf("send request: %w", err)
	}

	p, err = s.store.CreateEdge(ctx, callerID, targetID)
	if err != nil {
		return store.Pending{}, fmt.Errorf("send request: %w", err)
	}
	return p, nil
}

// AcceptRequest accepts the pending request requesterID sent to callerID.
// Only the recipient may accept.
func (s *Service) AcceptRequest(ctx context.Context, callerID, requesterID uint) (a store.Accepted, err error) {
	defer func() { s.metrics.ObserveTransition("accept", err) }()

	if err := requireTarget(requesterID); err != nil {
		return store.Accepted{}, err
	}

	edge, err := s.store.FindEdge(ctx, callerID, requesterID)
	if err != nil {
		return store.Accepted{}, fmt.Errorf("accept request: %w", err)
	}
	pending, ok := edge.(store.Pending)
	if !ok {
		return store.Accepted{}, apperrors.NotFound("no pending friend request from user %d", requesterID)
	}
	if pending.Recipient != callerID {
		return store.Accepted{}, apperrors.NotAuthorized("only the recipient can accept a friend request")
	}

	updated, err := s.store.UpdateStatus(ctx, pending, store.StatusAccepted)
	if err != nil {
		return store.Accepted{}, fmt.Errorf("accept request: %w", err)
	}
	return updated.(store.Accepted), nil
}

// RemoveFriend deletes whatever edge joins callerID and otherID. It unfriends,
// rejects an incoming request or cancels an outgoing one.
func (s *Service) RemoveFriend(ctx context.Context, callerID, otherID uint) (err error) {
	defer func() { s.metrics.ObserveTransition("remove", err) }()

	if err := requireTarget(otherID); err != nil {
		return err
	}

	edge, err := s.store.FindEdge(ctx, callerID, otherID)
	if err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	if err := s.store.DeleteEdge(ctx, edge); err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	return nil
}
