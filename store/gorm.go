package store

import (
	"context"
	"errors"
	"strings"

	"github.com/snap-point/social-api/apperrors"
	"github.com/snap-point/social-api/models"
	"gorm.io/gorm"
)

// GormStore keeps edges in the friendships table.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func toEdge(f models.Friendship) Edge {
	if f.Status == models.FriendshipAccepted {
		return Accepted{UserA: f.UserA, UserB: f.UserB, CreatedAt: f.CreatedAt}
	}
	return Pending{Requester: f.UserA, Recipient: f.UserB, CreatedAt: f.CreatedAt}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

func pairQuery(db *gorm.DB, x, y uint) *gorm.DB {
	low, high := x, y
	if low > high {
		low, high = high, low
	}
	return db.Where("pair_low = ? AND pair_high = ?", low, high)
}

func (s *GormStore) FindEdge(ctx context.Context, x, y uint) (Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if x == y {
		return nil, apperrors.NotFound("no friendship between users %d and %d", x, y)
	}

	var friendship models.Friendship
	if err := pairQuery(s.DB.WithContext(ctx), x, y).First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no friendship between users %d and %d", x, y)
		}
		return nil, apperrors.Storage("find friendship", err)
	}
	return toEdge(friendship), nil
}

func (s *GormStore) CreateEdge(ctx context.Context, requester, recipient uint) (Pending, error) {
	if err := ctx.Err(); err != nil {
		return Pending{}, err
	}
	if requester == recipient {
		return Pending{}, apperrors.Conflict("cannot send a friend request to yourself")
	}

	friendship := models.Friendship{
		UserA:  requester,
		UserB:  recipient,
		Status: models.FriendshipPending,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := pairQuery(tx.Model(&models.Friendship{}), requester, recipient).Count(&count).Error; err != nil {
			return apperrors.Storage("check existing friendship", err)
		}
		if count > 0 {
			return apperrors.Conflict("friendship between users %d and %d already exists", requester, recipient)
		}
		if err := tx.Create(&friendship).Error; err != nil {
			if isDuplicateKey(err) {
				return apperrors.Conflict("friendship between users %d and %d already exists", requester, recipient)
			}
			return apperrors.Storage("create friendship", err)
		}
		return nil
	})
	if err != nil {
		return Pending{}, err
	}

	return Pending{Requester: requester, Recipient: recipient, CreatedAt: friendship.CreatedAt}, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, edge Edge, status Status) (Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pending, ok := edge.(Pending)
	if !ok || status != StatusAccepted {
		return nil, apperrors.InvalidTransition(string(edge.Status()), string(status))
	}

	var updated models.Friendship
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Friendship{}).
			Where("user_a = ? AND user_b = ? AND status = ?", pending.Requester, pending.Recipient, models.FriendshipPending).
			Update("status", models.FriendshipAccepted)
		if result.Error != nil {
			return apperrors.Storage("accept friendship", result.Error)
		}
		if result.RowsAffected == 0 {
			var current models.Friendship
			err := tx.Where("user_a = ? AND user_b = ?", pending.Requester, pending.Recipient).First(&current).Error
			if err == nil {
				return apperrors.InvalidTransition(current.Status, string(status))
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("no pending friend request from user %d to user %d", pending.Requester, pending.Recipient)
			}
			return apperrors.Storage("accept friendship", err)
		}
		if err := tx.Where("user_a = ? AND user_b = ?", pending.Requester, pending.Recipient).First(&updated).Error; err != nil {
			return apperrors.Storage("reload friendship", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toEdge(updated), nil
}

func (s *GormStore) DeleteEdge(ctx context.Context, edge Edge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, b := edge.Users()

	result := pairQuery(s.DB.WithContext(ctx), a, b).Delete(&models.Friendship{})
	if result.Error != nil {
		return apperrors.Storage("delete friendship", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("no friendship between users %d and %d", a, b)
	}
	return nil
}

func (s *GormStore) AcceptedEdges(ctx context.Context, userID uint) ([]Accepted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.Friendship
	err := s.DB.WithContext(ctx).
		Where("(user_a = ? OR user_b = ?) AND status = ?", userID, userID, models.FriendshipAccepted).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Storage("list friends", err)
	}

	edges := make([]Accepted, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, Accepted{UserA: row.UserA, UserB: row.UserB, CreatedAt: row.CreatedAt})
	}
	return edges, nil
}

func (s *GormStore) PendingIncoming(ctx context.Context, userID uint) ([]Pending, error) {
	return s.pending(ctx, "user_b = ?", "created_at ASC, user_a ASC", userID, "list incoming requests")
}

func (s *GormStore) PendingOutgoing(ctx context.Context, userID uint) ([]Pending, error) {
	return s.pending(ctx, "user_a = ?", "created_at ASC, user_b ASC", userID, "list outgoing requests")
}

func (s *GormStore) pending(ctx context.Context, where, order string, userID uint, op string) ([]Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []models.Friendship
	err := s.DB.WithContext(ctx).
		Where(where, userID).
		Where("status = ?", models.FriendshipPending).
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}

	edges := make([]Pending, 0, len(rows))
	for _, row := range rows {
		edges = append(edges, Pending{Requester: row.UserA, Recipient: row.UserB, CreatedAt: row.CreatedAt})
	}
	return edges, nil
}
