package leasing

import (
	"context"
	"fmt"

	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// TransitionRecorder counts status transitions, typically into metrics
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, from, to leasing.Status)
}

// LeaseStatusNotifier reacts to LeaseStatusChanged events. Ending-soon and
// expired transitions are surfaced to the landlord through the log pipeline.
type LeaseStatusNotifier struct {
	logger   *zap.Logger
	recorder TransitionRecorder
}

// NewLeaseStatusNotifier creates a new LeaseStatusNotifier
func NewLeaseStatusNotifier(logger *zap.Logger) *LeaseStatusNotifier {
	return &LeaseStatusNotifier{logger: logger}
}

// WithRecorder sets the transition recorder
func (n *LeaseStatusNotifier) WithRecorder(recorder TransitionRecorder) *LeaseStatusNotifier {
	n.recorder = recorder
	return n
}

// EventTypes returns the event types this handler is interested in
func (n *LeaseStatusNotifier) EventTypes() []string {
	return []string{leasing.EventTypeLeaseStatusChanged}
}

// Handle processes a LeaseStatusChangedEvent
func (n *LeaseStatusNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*leasing.LeaseStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			leasing.EventTypeLeaseStatusChanged, event.EventType())
	}

	fields := []zap.Field{
		zap.String("owner_id", event.OwnerID().String()),
		zap.String("lease_id", changed.LeaseID.String()),
		zap.String("property_id", changed.PropertyID.String()),
		zap.String("from", changed.From.String()),
		zap.String("to", changed.To.String()),
		zap.String("on", changed.On.String()),
	}
	if changed.TenantID != nil {
		fields = append(fields, zap.String("tenant_id", changed.TenantID.String()))
	}

	switch changed.To {
	case leasing.StatusEndingSoon:
		n.logger.Info("lease is ending soon", append(fields, zap.Int("days_remaining", changed.DaysRemaining))...)
	case leasing.StatusExpired:
		n.logger.Warn("lease expired", fields...)
	case leasing.StatusActive:
		n.logger.Info("lease became active", fields...)
	default:
		n.logger.Debug("lease status changed", fields...)
	}

	if n.recorder != nil {
		n.recorder.RecordTransition(ctx, changed.From, changed.To)
	}
	return nil
}

// Ensure LeaseStatusNotifier implements shared.EventHandler
var _ shared.EventHandler = (*LeaseStatusNotifier)(nil)
