package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastmile/internal/core/domain/model/kernel"
)

type fakeRouteSource struct {
	mu      sync.Mutex
	orderID kernel.UUID
	active  bool
	err     error
	polls   int
}

func (s *fakeRouteSource) set(orderID kernel.UUID, active bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderID, s.active, s.err = orderID, active, err
}

func (s *fakeRouteSource) ActiveRoute(context.Context) (kernel.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	return s.orderID, s.active, s.err
}

type fakeSwitch struct {
	mu      sync.Mutex
	enabled bool
	orderID kernel.UUID
}

func (s *fakeSwitch) Enable(orderID kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	s.orderID = orderID
}

func (s *fakeSwitch) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
}

func (s *fakeSwitch) state() (bool, kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled, s.orderID
}

func Test_Gate_EnablesPipelineWhenRouteActive(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))

	routeOrderID := kernel.NewUUID()
	source.set(routeOrderID, true, nil)

	gate.check(context.Background())

	enabled, gotOrderID := sw.state()
	assert.True(t, enabled)
	assert.True(t, gotOrderID.IsEqual(routeOrderID))
}

func Test_Gate_DisablesPipelineWithoutRoute(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{enabled: true}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))

	gate.check(context.Background())

	enabled, _ := sw.state()
	assert.False(t, enabled)
}

func Test_Gate_PollFailureKeepsPreviousState(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{enabled: true}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))

	source.set(kernel.UUID{}, false, errors.New("connection refused"))

	gate.check(context.Background())

	enabled, _ := sw.state()
	assert.True(t, enabled)
}

func Test_Gate_BackgroundTearsDownImmediately(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))

	routeOrderID := kernel.NewUUID()
	source.set(routeOrderID, true, nil)
	gate.check(context.Background())

	gate.SetVisible(context.Background(), false)
	enabled, _ := sw.state()
	assert.False(t, enabled)

	// While backgrounded, polling must not re-enable the pipeline.
	gate.check(context.Background())
	enabled, _ = sw.state()
	assert.False(t, enabled)
}

func Test_Gate_ForegroundRechecksImmediately(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))

	routeOrderID := kernel.NewUUID()
	source.set(routeOrderID, true, nil)

	gate.SetVisible(context.Background(), false)
	gate.SetVisible(context.Background(), true)

	enabled, gotOrderID := sw.state()
	assert.True(t, enabled)
	assert.True(t, gotOrderID.IsEqual(routeOrderID))
}

func Test_Gate_RunPollsUntilCancelled(t *testing.T) {
	source := &fakeRouteSource{}
	sw := &fakeSwitch{}
	gate := NewGate(source, sw, slog.New(slog.DiscardHandler))
	gate.interval = 10 * time.Millisecond

	routeOrderID := kernel.NewUUID()
	source.set(routeOrderID, true, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		gate.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.polls >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	// Cancellation leaves the pipeline switched off.
	enabled, _ := sw.state()
	assert.False(t, enabled)
}
