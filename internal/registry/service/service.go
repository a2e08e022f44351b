// Package service implements the registry's mutation and query operations.
//
// Every mutation executes as one atomic unit inside a store transaction:
// the pause gate, authorization, structural existence, domain validation and
// business-invariant checks run in that strict order against the
// transaction's view, and the first violation aborts the whole unit with a
// single coded error. Queries are read-only projections that report absence
// instead of failing.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"steward/internal/events"
	"steward/internal/registry/metrics"
	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
	"steward/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks EventPublisher,MetadataCache

// EventPublisher fans out registry events after a successful mutation.
// Emission is best-effort: publish errors are logged, never propagated.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

// MetadataCache shortcuts repeated metadata reads. All methods are
// best-effort; the store remains the source of truth.
type MetadataCache interface {
	Get(ctx context.Context, tokenID uint64) (*models.Metadata, bool)
	Set(ctx context.Context, tokenID uint64, md *models.Metadata)
	Invalidate(ctx context.Context, tokenID uint64)
}

// Service orchestrates validation, access control and the state store.
type Service struct {
	store     store.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher EventPublisher
	cache     MetadataCache
	tracer    trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetadataCache(c MetadataCache) Option {
	return func(s *Service) { s.cache = c }
}

// New constructs a Service on top of a registry state store.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tracer: otel.Tracer("steward/internal/registry/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// requireNotPaused is the common preamble for every non-administrative
// mutation: it runs before any other check.
func requireNotPaused(tx store.ReadTx) error {
	paused, err := tx.Paused()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read pause flag")
	}
	if paused {
		return dErrors.New(dErrors.CodeContractPaused, "registry is paused")
	}
	return nil
}

// emit publishes ev with a fresh id and the request timestamp. Failures are
// logged; events are observability, not part of the consistency contract.
func (s *Service) emit(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.Timestamp = requestcontext.Now(ctx)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"event_type", string(ev.Type),
			"token_id", ev.TokenID,
			"error", err,
		)
	}
}

// observe records the outcome of a mutation attempt.
func (s *Service) observe(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(op, time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncFailure(op, string(dErrors.CodeOf(err)))
	}
}
