// Package observe provides OpenTelemetry metrics for the concierge services.
// Transcript delivery is deliberately best-effort (a failed relay is only a
// warning), so the counters here are the operator's signal that relay
// failures have become systemic rather than incidental.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all concierge metrics.
const meterName = "github.com/attartravel/concierge"

// Drop reasons recorded on the transcripts.dropped counter.
const (
	DropReasonQueueFull = "queue_full"
	DropReasonHTTPError = "http_error"
	DropReasonTransport = "transport_error"
)

// Metrics holds the metric instruments for the transcript relay and the
// backend API. All fields are safe for concurrent use.
type Metrics struct {
	// TranscriptsDelivered counts transcripts accepted by the backend.
	// Attribute: speaker.
	TranscriptsDelivered metric.Int64Counter

	// TranscriptsDropped counts transcripts lost to a full queue or a
	// failed delivery. Attributes: speaker, reason.
	TranscriptsDropped metric.Int64Counter

	// SessionBindings counts session-info lookups. Attribute: status
	// ("bound" or "unbound").
	SessionBindings metric.Int64Counter

	// ActiveRooms tracks the number of voice rooms currently being relayed.
	ActiveRooms metric.Int64UpDownCounter
}

// NewMetrics creates a fully initialised Metrics struct using the given
// meter provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranscriptsDelivered, err = m.Int64Counter("concierge.transcripts.delivered",
		metric.WithDescription("Transcripts accepted by the backend, by speaker."),
	); err != nil {
		return nil, err
	}
	if met.TranscriptsDropped, err = m.Int64Counter("concierge.transcripts.dropped",
		metric.WithDescription("Transcripts lost before durable storage, by speaker and reason."),
	); err != nil {
		return nil, err
	}
	if met.SessionBindings, err = m.Int64Counter("concierge.session.bindings",
		metric.WithDescription("Session-info lookups, by outcome."),
	); err != nil {
		return nil, err
	}
	if met.ActiveRooms, err = m.Int64UpDownCounter("concierge.active_rooms",
		metric.WithDescription("Voice rooms currently being relayed."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics instance, creating it on
// first call from the global meter provider. Tests should use NewMetrics
// with their own provider to avoid cross-test pollution.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordDelivered records one successfully persisted transcript.
func (m *Metrics) RecordDelivered(ctx context.Context, speaker string) {
	m.TranscriptsDelivered.Add(ctx, 1,
		metric.WithAttributes(attribute.String("speaker", speaker)),
	)
}

// RecordDropped records one lost transcript with the reason it was lost.
func (m *Metrics) RecordDropped(ctx context.Context, speaker, reason string) {
	m.TranscriptsDropped.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("speaker", speaker),
			attribute.String("reason", reason),
		),
	)
}

// RecordBinding records the outcome of a session-info lookup.
func (m *Metrics) RecordBinding(ctx context.Context, bound bool) {
	status := "unbound"
	if bound {
		status = "bound"
	}
	m.SessionBindings.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
