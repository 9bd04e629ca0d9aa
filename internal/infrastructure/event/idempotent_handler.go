package event

import (
	"context"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// KeyedEvent is implemented by events that carry a business idempotency key.
// Two events with the same key are treated as one delivery even when their
// event IDs differ, e.g. a status transition observed by two sweep runs.
type KeyedEvent interface {
	IdempotencyKey() string
}

// IdempotencyKeyOf returns the business key of an event, or its event ID
func IdempotencyKeyOf(event shared.DomainEvent) string {
	if keyed, ok := event.(KeyedEvent); ok {
		if key := keyed.IdempotencyKey(); key != "" {
			return key
		}
	}
	return event.EventID().String()
}

// Delivery outcomes recorded on the estait.event.deliveries counter
const (
	OutcomeHandled   = "handled"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// IdempotentHandler wraps an EventHandler so each idempotency key is handled once
type IdempotentHandler struct {
	handler    shared.EventHandler
	store      shared.IdempotencyStore
	config     shared.IdempotencyConfig
	logger     *zap.Logger
	deliveries metric.Int64Counter
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig overrides shared.DefaultIdempotencyConfig
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// WithDeliveryMeter counts deliveries by event type and outcome on meter
func WithDeliveryMeter(meter metric.Meter) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		counter, err := meter.Int64Counter("estait.event.deliveries",
			metric.WithDescription("Event deliveries seen by idempotent handlers"),
			metric.WithUnit("{delivery}"),
		)
		if err != nil {
			h.logger.Warn("Event delivery counter unavailable", zap.Error(err))
			return
		}
		h.deliveries = counter
	}
}

// NewIdempotentHandler wraps handler with deduplication through store
func NewIdempotentHandler(
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	logger *zap.Logger,
	opts ...IdempotentHandlerOption,
) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	h.deliveries, _ = noop.NewMeterProvider().Meter("").Int64Counter("")
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle marks the event's key and runs the wrapped handler only if the key was new.
// A store failure does not drop the event; a handler failure keeps the key
// until its TTL expires.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.deliver(ctx, event)
	}

	key := IdempotencyKeyOf(event)
	fields := []zap.Field{
		zap.String("idempotency_key", key),
		zap.String("event_type", event.EventType()),
	}

	isNew, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("Idempotency check failed, handling event anyway", append(fields, zap.Error(err))...)
	case !isNew:
		h.record(ctx, event, OutcomeDuplicate)
		h.logger.Debug("Duplicate event skipped", fields...)
		return nil
	}
	return h.deliver(ctx, event)
}

func (h *IdempotentHandler) deliver(ctx context.Context, event shared.DomainEvent) error {
	if err := h.handler.Handle(ctx, event); err != nil {
		h.record(ctx, event, OutcomeFailed)
		return err
	}
	h.record(ctx, event, OutcomeHandled)
	return nil
}

func (h *IdempotentHandler) record(ctx context.Context, event shared.DomainEvent, outcome string) {
	h.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.EventType()),
		attribute.String("outcome", outcome),
	))
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
