// Package friends answers relationship questions over the friendship graph
// and performs the request, accept and remove operations.
package friends

import (
	"github.com/snap-point/social-api/directory"
	"github.com/snap-point/social-api/observability"
	"github.com/snap-point/social-api/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	SuggestionLimit = 10
	// MutualPreviewLimit caps the mutual friends listed on each suggestion.
	MutualPreviewLimit = 5
	SearchLimit        = 20
	MinQueryLength     = 2
)

type Service struct {
	store     store.FriendshipStore
	directory directory.Directory
	metrics   *observability.Metrics
	tracer    trace.Tracer
}

// NewService builds a Service. metrics may be nil.
func NewService(s store.FriendshipStore, d directory.Directory, metrics *observability.Metrics) *Service {
	return &Service{
		store:     s,
		directory: d,
		metrics:   metrics,
		tracer:    otel.Tracer("github.com/snap-point/social-api/friends"),
	}
}
