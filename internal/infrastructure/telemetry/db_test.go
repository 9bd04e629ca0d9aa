package telemetry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/telemetry"
)

type note struct {
	ID   uint
	Body string
}

func TestDBConfigFrom(t *testing.T) {
	cfg := telemetry.DBConfigFrom(config.TelemetryConfig{DBTraceEnabled: true, DBSlowQueryThresh: time.Second}, "estait")
	assert.False(t, cfg.Tracing, "db tracing follows the telemetry switch")
	assert.Equal(t, time.Second, cfg.SlowQuery)
	assert.Equal(t, "estait", cfg.DBName)
}

func TestInstrumentDB(t *testing.T) {
	mp, reader := newTestMeter(t)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	// every query counts as slow
	require.NoError(t, telemetry.InstrumentDB(db, mp.Meter("db"), telemetry.DBConfig{SlowQuery: time.Nanosecond}, zap.New(core)))

	require.NoError(t, db.AutoMigrate(&note{}))
	require.NoError(t, db.Create(&note{Body: "boiler"}).Error)
	var got []note
	require.NoError(t, db.Find(&got).Error)
	assert.Error(t, db.Table("missing").Find(&got).Error)

	metrics := collect(t, reader)

	h, ok := metrics["db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	ops := map[string]bool{}
	for _, dp := range h.DataPoints {
		v, _ := dp.Attributes.Value(telemetry.AttrDBOperation)
		ops[v.AsString()] = true
	}
	assert.True(t, ops["create"])
	assert.True(t, ops["query"])

	assert.GreaterOrEqual(t, sumOf(t, metrics["db_query_errors_total"]), int64(1))
	_, ok = metrics["db_pool_connections"].Data.(metricdata.Gauge[int64])
	assert.True(t, ok)

	assert.NotZero(t, logs.FilterMessage("Slow query").Len())
}
