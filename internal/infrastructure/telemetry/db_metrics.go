package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// PoolStatsFunc reads connection pool statistics, typically (*sql.DB).Stats
type PoolStatsFunc func() sql.DBStats

// RegisterDBPoolMetrics exposes pool statistics as observable instruments,
// read on every collection. The returned registration can be unregistered
// on shutdown.
func RegisterDBPoolMetrics(meter metric.Meter, pool string, stats PoolStatsFunc) (metric.Registration, error) {
	open, err := meter.Int64ObservableGauge("db.pool.connections.open",
		metric.WithDescription("Open connections, in use and idle"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections.open: %w", err)
	}
	inUse, err := meter.Int64ObservableGauge("db.pool.connections.in_use",
		metric.WithDescription("Connections currently in use"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections.in_use: %w", err)
	}
	idle, err := meter.Int64ObservableGauge("db.pool.connections.idle",
		metric.WithDescription("Idle connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections.idle: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("db.pool.connections.max",
		metric.WithDescription("Maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db.pool.connections.max: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db.pool.wait.count",
		metric.WithDescription("Connections waited for"), metric.WithUnit("{wait}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db.pool.wait.count: %w", err)
	}
	waitTime, err := meter.Float64ObservableCounter("db.pool.wait.duration",
		metric.WithDescription("Total time blocked waiting for a connection"), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db.pool.wait.duration: %w", err)
	}

	attrs := metric.WithAttributes(AttrPool.String(pool))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(open, int64(s.OpenConnections), attrs)
		o.ObserveInt64(inUse, int64(s.InUse), attrs)
		o.ObserveInt64(idle, int64(s.Idle), attrs)
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections), attrs)
		o.ObserveInt64(waits, s.WaitCount, attrs)
		o.ObserveFloat64(waitTime, s.WaitDuration.Seconds(), attrs)
		return nil
	}, open, inUse, idle, maxOpen, waits, waitTime)
}
