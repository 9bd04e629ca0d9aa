package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/telemetry"
)

func TestConfigFrom(t *testing.T) {
	cfg := telemetry.ConfigFrom(config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.25,
		ServiceName:       "estait-api",
		LogExportEnabled:  true,
		MetricInterval:    30 * time.Second,
	}, "1.4.0")

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogsEnabled)
	assert.Equal(t, "1.4.0", cfg.ServiceVersion)
	assert.Equal(t, 30*time.Second, cfg.MetricInterval)

	off := telemetry.ConfigFrom(config.TelemetryConfig{LogExportEnabled: true}, "")
	assert.False(t, off.LogsEnabled, "log export needs telemetry enabled")
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{ServiceName: "estait"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.False(t, tp.SpanProfilesEnabled())
	_, span := tp.Tracer("test").Start(ctx, "noop")
	span.End()
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("needs an OTLP collector")
	}
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1,
		ServiceName:       "estait",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = tp.Shutdown(shutdownCtx)
}
