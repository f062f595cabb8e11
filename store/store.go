// Package store persists friendship edges.
//
// An edge is either Pending (directional: a requester waiting on a recipient)
// or Accepted (a confirmed friendship whose stored order carries no meaning).
// At most one edge exists for an unordered pair of users and no user is ever
// paired with themselves.
package store

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Edge is implemented only by Pending and Accepted.
type Edge interface {
	Status() Status
	// Users returns the endpoints in stored order: requester first.
	Users() (uint, uint)
	Created() time.Time
	edge()
}

type Pending struct {
	Requester uint      `json:"requester"`
	Recipient uint      `json:"recipient"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Pending) Status() Status        { return StatusPending }
func (p Pending) Users() (uint, uint) { return p.Requester, p.Recipient }
func (p Pending) Created() time.Time  { return p.CreatedAt }
func (Pending) edge()                 {}

type Accepted struct {
	UserA     uint      `json:"userA"`
	UserB     uint      `json:"userB"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Accepted) Status() Status        { return StatusAccepted }
func (a Accepted) Users() (uint, uint) { return a.UserA, a.UserB }
func (a Accepted) Created() time.Time  { return a.CreatedAt }
func (Accepted) edge()                 {}

// Other returns the endpoint of a that is not userID.
func (a Accepted) Other(userID uint) uint {
	if a.UserA == userID {
		return a.UserB
	}
	return a.UserA
}

// Involves reports whether userID is an endpoint of e.
func Involves(e Edge, userID uint) bool {
	a, b := e.Users()
	return a == userID || b == userID
}

// FriendshipStore is the persistence contract for friendship edges. Every
// method is atomic on its own.
type FriendshipStore interface {
	// FindEdge returns the edge between x and y in either stored orientation,
	// or an apperrors.ErrNotFound error.
	FindEdge(ctx context.Context, x, y uint) (Edge, error)

	// CreateEdge stores a new pending edge. It fails with ErrConflict when the
	// users are the same or any edge already exists for the pair.
	CreateEdge(ctx context.Context, requester, recipient uint) (Pending, error)

	// UpdateStatus moves edge to status. Only pending -> accepted is legal;
	// everything else is ErrInvalidTransition.
	UpdateStatus(ctx context.Context, edge Edge, status Status) (Edge, error)

	// DeleteEdge removes edge. Deleting a missing edge is ErrNotFound.
	DeleteEdge(ctx context.Context, edge Edge) error

	// AcceptedEdges lists the accepted edges touching userID, oldest first.
	AcceptedEdges(ctx context.Context, userID uint) ([]Accepted, error)

	// PendingIncoming lists pending edges whose recipient is userID, oldest
	// first, ties broken by requester id.
	PendingIncoming(ctx context.Context, userID uint) ([]Pending, error)

	// PendingOutgoing lists pending edges whose requester is userID, oldest
	// first, ties broken by recipient id.
	PendingOutgoing(ctx context.Context, userID uint) ([]Pending, error)
}
