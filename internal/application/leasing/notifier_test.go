package leasing

import (
	"context"
	"testing"

	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type transition struct {
	from, to leasing.Status
}

type transitionLog struct {
	seen []transition
}

func (r *transitionLog) RecordTransition(_ context.Context, from, to leasing.Status) {
	r.seen = append(r.seen, transition{from, to})
}

func TestLeaseStatusNotifier_Handle(t *testing.T) {
	lease := newTestLease(t, uuid.New(), uuid.New(), "2024-01-01", "2024-12-31")
	tenantID := uuid.New()
	lease.TenantID = &tenantID

	tests := []struct {
		name    string
		from    leasing.Status
		to      leasing.Status
		on      string
		message string
		level   zapcore.Level
	}{
		{"ending soon", leasing.StatusActive, leasing.StatusEndingSoon, "2024-12-01", "lease is ending soon", zapcore.InfoLevel},
		{"expired", leasing.StatusEndingSoon, leasing.StatusExpired, "2025-01-01", "lease expired", zapcore.WarnLevel},
		{"started", leasing.StatusUpcoming, leasing.StatusActive, "2024-01-01", "lease became active", zapcore.InfoLevel},
		{"other", leasing.StatusUpcoming, leasing.StatusEndingSoon, "2024-12-15", "lease status changed", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			recorder := &transitionLog{}
			notifier := NewLeaseStatusNotifier(zap.New(core)).WithRecorder(recorder)

			err := notifier.Handle(context.Background(), leasing.NewLeaseStatusChangedEvent(lease, tt.from, tt.to, day(tt.on)))
			require.NoError(t, err)

			entries := logs.FilterMessage(tt.message).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, lease.ID.String(), fields["lease_id"])
			assert.Equal(t, tenantID.String(), fields["tenant_id"])
			assert.Equal(t, string(tt.to), fields["to"])
			assert.Equal(t, []transition{{tt.from, tt.to}}, recorder.seen)
		})
	}

	t.Run("ending soon carries days remaining", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		notifier := NewLeaseStatusNotifier(zap.New(core))
		require.NoError(t, notifier.Handle(context.Background(),
			leasing.NewLeaseStatusChangedEvent(lease, leasing.StatusActive, leasing.StatusEndingSoon, day("2024-12-01"))))
		entries := logs.FilterMessage("lease is ending soon").All()
		require.Len(t, entries, 1)
		assert.EqualValues(t, 30, entries[0].ContextMap()["days_remaining"])
	})
}

func TestLeaseStatusNotifier_RejectsOtherEvents(t *testing.T) {
	notifier := NewLeaseStatusNotifier(zap.NewNop())
	assert.Equal(t, []string{leasing.EventTypeLeaseStatusChanged}, notifier.EventTypes())

	tenant, err := property.NewTenant(uuid.New(), "Dana", "Levi", property.ContactInfo{}, "")
	require.NoError(t, err)
	err = notifier.Handle(context.Background(), property.NewTenantCreatedEvent(tenant))
	assert.ErrorContains(t, err, "unexpected event type")
}
