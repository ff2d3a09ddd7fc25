package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks statements slower than this on their span
const DefaultSlowQueryThreshold = 200 * time.Millisecond

const queryStartKey = "elint:query_start"

// DBTracingOptions configures RegisterDBTracing
type DBTracingOptions struct {
	DBSystem           string
	IncludeQueryVars   bool
	SlowQueryThreshold time.Duration
}

// RegisterDBTracing installs the otelgorm plugin so every statement gets a
// span, plus a callback that flags slow statements on the active span
func RegisterDBTracing(db *gorm.DB, opts DBTracingOptions, logger *zap.Logger) error {
	pluginOpts := []otelgorm.Option{otelgorm.WithDBName(opts.DBSystem)}
	if !opts.IncludeQueryVars {
		pluginOpts = append(pluginOpts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(pluginOpts...)); err != nil {
		return err
	}

	threshold := opts.SlowQueryThreshold
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	if err := registerSlowQueryCallbacks(db, threshold, logger); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", opts.DBSystem),
		zap.Duration("slow_query_threshold", threshold),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration, logger *zap.Logger) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed < threshold {
			return
		}
		table := tx.Statement.Table
		if tx.Statement.Context != nil {
			span := trace.SpanFromContext(tx.Statement.Context)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.String("db.table", table),
				attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
			))
		}
		logger.Warn("Slow query detected",
			zap.String("table", table),
			zap.Duration("duration", elapsed),
		)
	}

	cb := db.Callback()
	steps := []struct {
		name   string
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
	for _, s := range steps {
		if err := s.before("elint_slow_query:before_"+s.name, before); err != nil {
			return err
		}
		if err := s.after("elint_slow_query:after_"+s.name, after); err != nil {
			return err
		}
	}
	return nil
}
