package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// PollInterval is how often the gate re-checks route eligibility.
const PollInterval = 10 * time.Second

// RouteSource answers whether the rider currently has an active route and,
// when they do, which order heads it.
type RouteSource interface {
	ActiveRoute(ctx context.Context) (kernel.UUID, bool, error)
}

// PipelineSwitch is the part of the pipeline the gate drives.
type PipelineSwitch interface {
	Enable(routeOrderID kernel.UUID)
	Disable()
}

// Gate polls the route source and is the master switch for the sample
// pipeline. The pipeline runs only while a route exists and the observing
// surface is visible; going to the background tears the watch down to save
// battery and bandwidth.
type Gate struct {
	source   RouteSource
	pipeline PipelineSwitch
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	visible bool
}

// NewGate creates a gate that starts in the visible state.
func NewGate(source RouteSource, pipeline PipelineSwitch, logger *slog.Logger) *Gate {
	return &Gate{
		source:   source,
		pipeline: pipeline,
		logger:   logger.With("component", "route_gate"),
		interval: PollInterval,
		visible:  true,
	}
}

// SetVisible records whether the observing surface is in the foreground.
// Going invisible disables the pipeline immediately; returning to the
// foreground re-checks eligibility right away instead of waiting for the
// next tick.
func (g *Gate) SetVisible(ctx context.Context, visible bool) {
	g.mu.Lock()
	changed := g.visible != visible
	g.visible = visible
	g.mu.Unlock()

	if !changed {
		return
	}

	if !visible {
		g.pipeline.Disable()
		return
	}

	g.check(ctx)
}

// Run polls until the context is cancelled.
func (g *Gate) Run(ctx context.Context) {
	g.check(ctx)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.pipeline.Disable()
			return
		case <-ticker.C:
			g.check(ctx)
		}
	}
}

func (g *Gate) check(ctx context.Context) {
	g.mu.Lock()
	visible := g.visible
	g.mu.Unlock()

	if !visible {
		g.pipeline.Disable()
		return
	}

	orderID, active, err := g.source.ActiveRoute(ctx)
	if err != nil {
		// A failed poll keeps the previous switch state.
		g.logger.WarnContext(ctx, "route poll failed", "error", err)
		return
	}

	if !active {
		g.pipeline.Disable()
		return
	}

	g.pipeline.Enable(orderID)
}
