// Package telemetry implements the rider-side GPS plumbing: the sample
// pipeline that filters and forwards device fixes, and the eligibility gate
// that switches the pipeline on and off with the active route.
package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
	"lastmile/internal/metrics"
)

// Filter thresholds for raw device fixes.
const (
	// MaxAccuracyMeters rejects unreliable fixes.
	MaxAccuracyMeters = 50.0
	// MinDistanceMeters suppresses jitter while the rider is stationary.
	MinDistanceMeters = 10.0
	// MaxSpeedKmh suppresses GPS teleport artifacts.
	MaxSpeedKmh = 120.0
	// SendInterval throttles network sends regardless of how fast eligible
	// samples arrive.
	SendInterval = 3000 * time.Millisecond
)

// RawSample is one unfiltered fix from the device.
type RawSample struct {
	Lat        float64
	Lng        float64
	AccuracyM  float64
	SpeedKmh   float64
	Heading    float64
	RecordedAt time.Time
}

// Sample is a fix that passed every filter, with the heading normalized.
type Sample struct {
	OrderID    kernel.UUID `json:"order_id"`
	Lat        float64     `json:"lat"`
	Lng        float64     `json:"lng"`
	Heading    float64     `json:"heading"`
	SpeedKmh   float64     `json:"speed_kmh"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// Decision reports what the pipeline did with a raw sample.
type Decision string

const (
	DecisionSent             Decision = "sent"
	DecisionQueued           Decision = "queued"
	DecisionDisabled         Decision = "disabled"
	DecisionRejectedAccuracy Decision = "rejected_accuracy"
	DecisionRejectedDistance Decision = "rejected_distance"
	DecisionRejectedSpeed    Decision = "rejected_speed"
	DecisionThrottled        Decision = "throttled"
	DecisionDroppedInFlight  Decision = "dropped_in_flight"
)

// Sender pushes an accepted sample to the server.
type Sender interface {
	SendLocation(ctx context.Context, sample Sample) error
}

// FailureSink captures a sample whose send failed, for later replay.
type FailureSink interface {
	Enqueue(ctx context.Context, action pending.Action) error
}

// Pipeline filters raw device fixes and forwards the survivors. Send
// failures are converted into pending actions and handed to the sink, never
// retried inline and never surfaced to the rider.
type Pipeline struct {
	sender Sender
	sink   FailureSink
	logger *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	enabled      bool
	routeOrderID kernel.UUID
	lastAccepted *acceptedFix
	lastSentAt   time.Time
	inFlight     bool
}

type acceptedFix struct {
	point      kernel.GeoPoint
	recordedAt time.Time
}

// NewPipeline creates a disabled pipeline. The gate enables it once an
// active route exists.
func NewPipeline(sender Sender, sink FailureSink, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		sender: sender,
		sink:   sink,
		logger: logger.With("component", "telemetry_pipeline"),
		now:    time.Now,
	}
}

// Enable starts accepting samples for the given route.
func (p *Pipeline) Enable(routeOrderID kernel.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled && p.routeOrderID.IsEqual(routeOrderID) {
		return
	}

	p.enabled = true
	p.routeOrderID = routeOrderID
	p.lastAccepted = nil
	p.lastSentAt = time.Time{}
}

// Disable stops the pipeline and forgets the filter state.
func (p *Pipeline) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enabled = false
	p.lastAccepted = nil
}

// Enabled reports whether the pipeline currently accepts samples.
func (p *Pipeline) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Offer runs one raw fix through the filters and, when it survives them and
// the throttle window is open, sends it. The send happens in the calling
// goroutine; a second caller arriving while a send is outstanding has its
// sample dropped.
func (p *Pipeline) Offer(ctx context.Context, raw RawSample) Decision {
	sample, decision := p.admit(raw)
	if decision != DecisionSent {
		metrics.SamplesRejected.WithLabelValues(rejectionReason(decision)).Inc()
		return decision
	}

	metrics.SamplesAccepted.Inc()

	err := p.sender.SendLocation(ctx, sample)

	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()

	if err == nil {
		metrics.LocationSends.WithLabelValues("ok").Inc()
		return DecisionSent
	}

	metrics.LocationSends.WithLabelValues("error").Inc()
	p.logger.WarnContext(ctx, "location send failed, queueing sample", "error", err)

	if queueErr := p.queueFailedSend(ctx, sample); queueErr != nil {
		p.logger.ErrorContext(ctx, "failed to queue location sample", "error", queueErr)
		return DecisionSent
	}

	return DecisionQueued
}

// admit applies the filters and claims the send slot under the lock. It
// never performs IO.
func (p *Pipeline) admit(raw RawSample) (Sample, Decision) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return Sample{}, DecisionDisabled
	}

	if raw.AccuracyM > MaxAccuracyMeters {
		return Sample{}, DecisionRejectedAccuracy
	}

	point, err := kernel.NewGeoPoint(raw.Lat, raw.Lng)
	if err != nil {
		return Sample{}, DecisionRejectedAccuracy
	}

	if p.lastAccepted != nil {
		// A fix recorded at or before the last accepted one cannot yield a
		// meaningful implied speed; it is stale and never admitted.
		if !raw.RecordedAt.After(p.lastAccepted.recordedAt) {
			return Sample{}, DecisionRejectedSpeed
		}

		distance, distErr := point.DistanceMeters(p.lastAccepted.point)
		if distErr != nil || distance < MinDistanceMeters {
			return Sample{}, DecisionRejectedDistance
		}

		if impliedSpeedKmh(raw, distance, p.lastAccepted.recordedAt) > MaxSpeedKmh {
			return Sample{}, DecisionRejectedSpeed
		}
	}

	// The fix passed every filter. It counts as the last accepted sample
	// even when the throttle drops it, so a stationary burst cannot creep
	// past the distance filter.
	p.lastAccepted = &acceptedFix{point: point, recordedAt: raw.RecordedAt}

	now := p.now()
	if !p.lastSentAt.IsZero() && now.Sub(p.lastSentAt) < SendInterval {
		return Sample{}, DecisionThrottled
	}

	if p.inFlight {
		return Sample{}, DecisionDroppedInFlight
	}

	p.inFlight = true
	p.lastSentAt = now

	return Sample{
		OrderID:    p.routeOrderID,
		Lat:        raw.Lat,
		Lng:        raw.Lng,
		Heading:    kernel.NormalizeHeading(raw.Heading),
		SpeedKmh:   raw.SpeedKmh,
		RecordedAt: raw.RecordedAt,
	}, DecisionSent
}

func (p *Pipeline) queueFailedSend(ctx context.Context, sample Sample) error {
	payload, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	action, err := pending.NewAction(sample.OrderID, pending.ActionLocationUpdate, payload, p.now())
	if err != nil {
		return err
	}

	return p.sink.Enqueue(ctx, action)
}

// impliedSpeedKmh prefers the device-reported speed and falls back to
// distance over elapsed time. The caller guarantees the sample is newer than
// the last accepted one.
func impliedSpeedKmh(raw RawSample, distanceMeters float64, lastRecordedAt time.Time) float64 {
	if raw.SpeedKmh > 0 {
		return raw.SpeedKmh
	}

	elapsed := raw.RecordedAt.Sub(lastRecordedAt)
	return distanceMeters / elapsed.Seconds() * 3.6
}

func rejectionReason(d Decision) string {
	switch d {
	case DecisionDisabled:
		return metrics.ReasonDisabled
	case DecisionRejectedAccuracy:
		return metrics.ReasonAccuracy
	case DecisionRejectedDistance:
		return metrics.ReasonDistance
	case DecisionRejectedSpeed:
		return metrics.ReasonSpeed
	case DecisionThrottled:
		return metrics.ReasonThrottle
	default:
		return metrics.ReasonInFlight
	}
}
