package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
)

// DBConfig controls database instrumentation
type DBConfig struct {
	Tracing   bool
	FullSQL   bool
	SlowQuery time.Duration
	DBName    string
}

// DBConfigFrom maps the application configuration
func DBConfigFrom(c config.TelemetryConfig, dbName string) DBConfig {
	return DBConfig{
		Tracing:   c.Enabled && c.DBTraceEnabled,
		FullSQL:   c.DBLogFullSQL,
		SlowQuery: c.DBSlowQueryThresh,
		DBName:    dbName,
	}
}

type dbStartKey struct{}

// dbInstrument times every gorm operation, logs slow queries, marks them on
// the active span and records a duration histogram
type dbInstrument struct {
	cfg      DBConfig
	logger   *zap.Logger
	duration *Histogram
	errors   *Counter
}

// InstrumentDB registers tracing, query metrics and connection pool gauges
// on db
func InstrumentDB(db *gorm.DB, meter metric.Meter, cfg DBConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQuery <= 0 {
		cfg.SlowQuery = 200 * time.Millisecond
	}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
		if !cfg.FullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Duration of database operations",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return err
	}
	errCount, err := NewCounter(meter, "db_query_errors_total", "Failed database operations", "{errors}")
	if err != nil {
		return err
	}
	inst := &dbInstrument{cfg: cfg, logger: logger.Named("db"), duration: duration, errors: errCount}
	if err := inst.register(db); err != nil {
		return err
	}
	return registerPoolGauges(db, meter)
}

func (i *dbInstrument) register(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("estait:before_"+h.op, i.before); err != nil {
			return err
		}
		if err := h.after("estait:after_"+h.op, i.after(h.op)); err != nil {
			return err
		}
	}
	return nil
}

func (i *dbInstrument) before(db *gorm.DB) {
	if db.Statement.Context == nil {
		db.Statement.Context = context.Background()
	}
	db.Statement.Context = context.WithValue(db.Statement.Context, dbStartKey{}, time.Now())
}

func (i *dbInstrument) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		start, ok := ctx.Value(dbStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if op == "raw" || op == "row" {
			op = operationOf(db.Statement.SQL.String(), op)
		}
		attrs := []attribute.KeyValue{AttrDBOperation.String(op), AttrDBTable.String(db.Statement.Table)}
		i.duration.RecordDuration(ctx, elapsed, attrs...)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			i.errors.Inc(ctx, attrs...)
		}
		if elapsed < i.cfg.SlowQuery {
			return
		}
		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(attribute.Int64("duration_ms", elapsed.Milliseconds())))
		}
		fields := []zap.Field{
			zap.String("operation", op),
			zap.String("table", db.Statement.Table),
			zap.Duration("duration", elapsed),
			zap.Int64("rows", db.Statement.RowsAffected),
		}
		if i.cfg.FullSQL {
			fields = append(fields, zap.String("sql", db.Statement.SQL.String()))
		}
		i.logger.Warn("Slow query", fields...)
	}
}

// operationOf derives the verb of a raw statement
func operationOf(sql, fallback string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return fallback
	}
	switch verb := strings.ToLower(fields[0]); verb {
	case "select", "insert", "update", "delete", "with":
		if verb == "with" {
			return "select"
		}
		return verb
	default:
		return fallback
	}
}

func registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		// connection pool not exposed by this dialector
		return nil
	}
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Open connections by state"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{waits}"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := sqlDB.Stats()
		o.ObserveInt64(conns, int64(st.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(st.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(st.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		o.ObserveInt64(waits, st.WaitCount)
		return nil
	}, conns, waits)
	return err
}
