// Package observability holds the prometheus metrics and tracing setup of the
// social API.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/snap-point/social-api/apperrors"
)

const (
	namespace = "social"
	subsystem = "friends"
)

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	transitions   *prometheus.CounterVec
	candidates    prometheus.Histogram
	searchResults prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "friendship_transitions_total",
			Help:      "Friendship request, accept and remove operations by result.",
		}, []string{"op", "result"}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "suggestion_candidates",
			Help:      "Friends-of-friends considered per suggestion request.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		searchResults: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "directory_search_results",
			Help:      "Users returned per directory search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		}),
	}
}

// ObserveTransition counts op with a result label derived from err.
func (m *Metrics) ObserveTransition(op string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op, ResultLabel(err)).Inc()
}

func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(n))
}

func (m *Metrics) ObserveSearchResults(n int) {
	if m == nil {
		return
	}
	m.searchResults.Observe(float64(n))
}

// ResultLabel names the outcome of an operation for metric labels.
func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperrors.Kind(err) {
	case apperrors.ErrValidation:
		return "validation"
	case apperrors.ErrConflict:
		return "conflict"
	case apperrors.ErrNotFound:
		return "not_found"
	case apperrors.ErrNotAuthorized:
		return "not_authorized"
	case apperrors.ErrInvalidTransition:
		return "invalid_transition"
	default:
		return "error"
	}
}
