package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the GORM tracing instrumentation.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // include SQL text in spans, never in production
	SlowQueryThresh  time.Duration // queries above this get a slow_query marker
	DBSystem         string
	WithoutVariables bool // strip bound parameters from recorded SQL
}

// DefaultDBTracingConfig returns the secure defaults: tracing off, SQL
// text and parameters excluded.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// DBTracingPlugin attaches otelgorm spans to every query and layers
// slow-query detection and error marking on top.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// RegisterOtelGorm installs the otelgorm plugin plus the timing
// callbacks on the given DB handle. A disabled config is a no-op.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerTimingCallbacks hooks every GORM operation so queries carry a
// start time going in and get inspected for duration coming out.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	return firstErr(
		db.Callback().Create().Before("gorm:create").Register("query_timing:before_create", stampQueryStart),
		db.Callback().Query().Before("gorm:query").Register("query_timing:before_query", stampQueryStart),
		db.Callback().Update().Before("gorm:update").Register("query_timing:before_update", stampQueryStart),
		db.Callback().Delete().Before("gorm:delete").Register("query_timing:before_delete", stampQueryStart),
		db.Callback().Row().Before("gorm:row").Register("query_timing:before_row", stampQueryStart),
		db.Callback().Raw().Before("gorm:raw").Register("query_timing:before_raw", stampQueryStart),

		db.Callback().Create().After("gorm:create").Register("query_timing:after_create", p.inspectQuery),
		db.Callback().Query().After("gorm:query").Register("query_timing:after_query", p.inspectQuery),
		db.Callback().Update().After("gorm:update").Register("query_timing:after_update", p.inspectQuery),
		db.Callback().Delete().After("gorm:delete").Register("query_timing:after_delete", p.inspectQuery),
		db.Callback().Row().After("gorm:row").Register("query_timing:after_row", p.inspectQuery),
		db.Callback().Raw().After("gorm:raw").Register("query_timing:after_raw", p.inspectQuery),
	)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = WithQueryStartTime(db.Statement.Context)
	}
}

// inspectQuery decorates the active span with row counts and the table
// name, records real errors, and flags queries over the threshold.
// ErrRecordNotFound is an expected outcome and never marks the span.
func (p *DBTracingPlugin) inspectQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}

type contextKey string

const queryStartTimeKey contextKey = "query_start_time"

// WithQueryStartTime stamps the context with the current time for the
// after-callback's duration check.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
