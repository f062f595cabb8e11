package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/snap-point/social-api/apperrors"
)

type pairKey struct {
	low, high uint
}

func keyOf(x, y uint) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{low: x, high: y}
}

type record struct {
	seq       uint64
	requester uint
	recipient uint
	status    Status
	createdAt time.Time
}

func (r *record) toEdge() Edge {
	if r.status == StatusAccepted {
		return Accepted{UserA: r.requester, UserB: r.recipient, CreatedAt: r.createdAt}
	}
	return Pending{Requester: r.requester, Recipient: r.recipient, CreatedAt: r.createdAt}
}

// MemoryStore keeps edges in process memory. Accepted edges are indexed as an
// adjacency list per user and pending edges per recipient and per requester,
// so every read is answered without scanning the whole edge set.
type MemoryStore struct {
	mu       sync.RWMutex
	edges    map[pairKey]*record
	friends  map[uint]map[uint]*record
	incoming map[uint]map[uint]*record
	outgoing map[uint]map[uint]*record
	seq      uint64
	now      func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		edges:    make(map[pairKey]*record),
		friends:  make(map[uint]map[uint]*record),
		incoming: make(map[uint]map[uint]*record),
		outgoing: make(map[uint]map[uint]*record),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func link(index map[uint]map[uint]*record, from, to uint, r *record) {
	m, ok := index[from]
	if !ok {
		m = make(map[uint]*record)
		index[from] = m
	}
	m[to] = r
}

func unlink(index map[uint]map[uint]*record, from, to uint) {
	m, ok := index[from]
	if !ok {
		return
	}
	delete(m, to)
	if len(m) == 0 {
		delete(index, from)
	}
}

func (s *MemoryStore) FindEdge(ctx context.Context, x, y uint) (Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.edges[keyOf(x, y)]
	if !ok || x == y {
		return nil, apperrors.NotFound("no friendship between users %d and %d", x, y)
	}
	return r.toEdge(), nil
}

func (s *MemoryStore) CreateEdge(ctx context.Context, requester, recipient uint) (Pending, error) {
	if err := ctx.Err(); err != nil {
		return Pending{}, err
	}
	if requester == recipient {
		return Pending{}, apperrors.Conflict("cannot send a friend request to yourself")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(requester, recipient)
	if _, exists := s.edges[key]; exists {
		return Pending{}, apperrors.Conflict("friendship between users %d and %d already exists", requester, recipient)
	}

	s.seq++
	r := &record{
		seq:       s.seq,
		requester: requester,
		recipient: recipient,
		status:    StatusPending,
		createdAt: s.now().UTC(),
	}
	s.edges[key] = r
	link(s.incoming, recipient, requester, r)
	link(s.outgoing, requester, recipient, r)

	return Pending{Requester: requester, Recipient: recipient, CreatedAt: r.createdAt}, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, edge Edge, status Status) (Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pending, ok := edge.(Pending)
	if !ok || status != StatusAccepted {
		return nil, apperrors.InvalidTransition(string(edge.Status()), string(status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.edges[keyOf(pending.Requester, pending.Recipient)]
	if !exists || r.requester != pending.Requester {
		return nil, apperrors.NotFound("no pending friend request from user %d to user %d", pending.Requester, pending.Recipient)
	}
	if r.status != StatusPending {
		return nil, apperrors.InvalidTransition(string(r.status), string(status))
	}

	r.status = StatusAccepted
	unlink(s.incoming, r.recipient, r.requester)
	unlink(s.outgoing, r.requester, r.recipient)
	link(s.friends, r.requester, r.recipient, r)
	link(s.friends, r.recipient, r.requester, r)

	return r.toEdge(), nil
}

func (s *MemoryStore) DeleteEdge(ctx context.Context, edge Edge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, b := edge.Users()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(a, b)
	r, exists := s.edges[key]
	if !exists {
		return apperrors.NotFound("no friendship between users %d and %d", a, b)
	}

	delete(s.edges, key)
	unlink(s.incoming, r.recipient, r.requester)
	unlink(s.outgoing, r.requester, r.recipient)
	unlink(s.friends, r.requester, r.recipient)
	unlink(s.friends, r.recipient, r.requester)
	return nil
}

func (s *MemoryStore) AcceptedEdges(ctx context.Context, userID uint) ([]Accepted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	records := sortedRecords(s.friends[userID], func(r *record) uint { return uint(r.seq) })
	s.mu.RUnlock()

	edges := make([]Accepted, 0, len(records))
	for _, r := range records {
		edges = append(edges, r.toEdge().(Accepted))
	}
	return edges, nil
}

func (s *MemoryStore) PendingIncoming(ctx context.Context, userID uint) ([]Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	records := sortedRecords(s.incoming[userID], func(r *record) uint { return r.requester })
	s.mu.RUnlock()
	return toPending(records), nil
}

func (s *MemoryStore) PendingOutgoing(ctx context.Context, userID uint) ([]Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	records := sortedRecords(s.outgoing[userID], func(r *record) uint { return r.recipient })
	s.mu.RUnlock()
	return toPending(records), nil
}

// sortedRecords orders records by creation time, then by tieBreak.
func sortedRecords(m map[uint]*record, tieBreak func(*record) uint) []*record {
	records := make([]*record, 0, len(m))
	for _, r := range m {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].createdAt.Equal(records[j].createdAt) {
			return records[i].createdAt.Before(records[j].createdAt)
		}
		return tieBreak(records[i]) < tieBreak(records[j])
	})
	return records
}

func toPending(records []*record) []Pending {
	out := make([]Pending, 0, len(records))
	for _, r := range records {
		out = append(out, r.toEdge().(Pending))
	}
	return out
}
