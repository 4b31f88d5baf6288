package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Queries slower than these thresholds are logged at warn and error level
// respectively.
const (
	slowQueryThreshold     = 100 * time.Millisecond
	verySlowQueryThreshold = 500 * time.Millisecond
)

// QueryLogger is a pgx tracer that surfaces slow and failed queries and
// keeps running counters for the health endpoint.
type QueryLogger struct {
	logger *zap.Logger

	totalQueries  atomic.Int64
	slowQueries   atomic.Int64
	failedQueries atomic.Int64
}

func NewQueryLogger(logger *zap.Logger) *QueryLogger {
	return &QueryLogger{logger: logger.Named("query")}
}

// QueryCounts reports total, slow, and failed query counts.
func (ql *QueryLogger) QueryCounts() (total, slow, failed int64) {
	return ql.totalQueries.Load(), ql.slowQueries.Load(), ql.failedQueries.Load()
}

type traceDataKey struct{}

type traceData struct {
	start time.Time
	sql   string
}

// TraceQueryStart implements pgx.QueryTracer.
func (ql *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, &traceData{start: time.Now(), sql: data.SQL})
}

// TraceQueryEnd implements pgx.QueryTracer.
func (ql *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	td, ok := ctx.Value(traceDataKey{}).(*traceData)
	if !ok {
		return
	}
	duration := time.Since(td.start)
	ql.totalQueries.Add(1)

	if data.Err != nil {
		ql.failedQueries.Add(1)
		ql.logger.Error("query failed",
			zap.String("sql", truncateSQL(td.sql, 500)),
			zap.Duration("duration", duration),
			zap.Error(data.Err),
		)
		return
	}

	switch {
	case duration >= verySlowQueryThreshold:
		ql.slowQueries.Add(1)
		ql.logger.Error("very slow query",
			zap.String("sql", truncateSQL(td.sql, 500)),
			zap.Duration("duration", duration),
			zap.String("command_tag", data.CommandTag.String()),
		)
	case duration >= slowQueryThreshold:
		ql.slowQueries.Add(1)
		ql.logger.Warn("slow query",
			zap.String("sql", truncateSQL(td.sql, 500)),
			zap.Duration("duration", duration),
			zap.String("command_tag", data.CommandTag.String()),
		)
	}
}

func truncateSQL(sql string, maxLen int) string {
	if len(sql) <= maxLen {
		return sql
	}
	return sql[:maxLen-3] + "..."
}
