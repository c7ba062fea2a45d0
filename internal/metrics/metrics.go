// Package metrics holds the Prometheus instruments shared by the services
// and jobs. Everything registers on the default registry and is served by
// promhttp in the binaries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons for SamplesRejected.
const (
	ReasonAccuracy = "accuracy"
	ReasonDistance = "distance"
	ReasonSpeed    = "speed"
	ReasonThrottle = "throttle"
	ReasonInFlight = "in_flight"
	ReasonDisabled = "disabled"
)

var (
	// SamplesAccepted counts GPS samples that passed every filter.
	SamplesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lastmile_location_samples_accepted_total",
		Help: "GPS samples that passed the accuracy, distance and speed filters.",
	})

	// SamplesRejected counts filtered or dropped GPS samples by reason.
	SamplesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_location_samples_rejected_total",
		Help: "GPS samples rejected by the pipeline, labelled by reason.",
	}, []string{"reason"})

	// LocationSends counts attempts to push a sample to the server.
	LocationSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_location_sends_total",
		Help: "Location send attempts, labelled by result (ok or error).",
	}, []string{"result"})

	// OfflineActionsEnqueued counts actions captured for later sync.
	OfflineActionsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lastmile_offline_actions_enqueued_total",
		Help: "Rider actions persisted to the offline queue.",
	})

	// OfflineActionsReplayed counts sync-pass replays by result.
	OfflineActionsReplayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_offline_actions_replayed_total",
		Help: "Offline queue replays, labelled by result (ok, retry or dropped).",
	}, []string{"result"})

	// AssignmentPasses counts dispatch passes by outcome.
	AssignmentPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_assignment_passes_total",
		Help: "Rider assignment dispatch passes, labelled by result (ok or error).",
	}, []string{"result"})
)
