// Package telemetry provides OpenTelemetry instrumentation for the
// configuration synchronization service.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/confsync/confsync/sourcecontrol"

// SyncMetrics holds the OpenTelemetry instruments for synchronization
// operation metrics
type SyncMetrics struct {
	operations  metric.Int64Counter
	duration    metric.Float64Histogram
	filesSynced metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	operations, err := meter.Int64Counter(
		"confsync_operations_total",
		metric.WithDescription("Number of synchronization operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"confsync_operation_duration_seconds",
		metric.WithDescription("Duration of synchronization operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	filesSynced, err := meter.Int64Counter(
		"confsync_files_synced_total",
		metric.WithDescription("Number of configuration files pushed or pulled"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		operations:  operations,
		duration:    duration,
		filesSynced: filesSynced,
	}, nil
}

// RecordOperation records the outcome of one synchronization operation
// together with the number of files it touched
func (m *SyncMetrics) RecordOperation(ctx context.Context, operation string, success bool, duration time.Duration, files int) {
	if m == nil || m.operations == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	}

	m.operations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if files > 0 {
		m.filesSynced.Add(ctx, int64(files), metric.WithAttributes(attribute.String("operation", operation)))
	}
}
