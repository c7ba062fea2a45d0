// Package offline implements the rider-side action queue: operations
// captured while the device had no connectivity, replayed in order once it
// comes back.
package offline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
	"lastmile/internal/metrics"
)

// SafetyPassInterval is how often a sync pass runs regardless of
// connectivity events, as a catch-all for missed online edges.
const SafetyPassInterval = 30 * time.Second

// ActionStore persists queued actions on the device.
type ActionStore interface {
	Append(ctx context.Context, action pending.Action) error
	List(ctx context.Context) ([]pending.Action, error)
	Update(ctx context.Context, action pending.Action) error
	Delete(ctx context.Context, id kernel.UUID) error
}

// Replayer retries an action's original operation against the server.
type Replayer interface {
	Replay(ctx context.Context, action pending.Action) error
}

// Queue is the durable offline action queue. Enqueued actions survive
// restarts through the store and are replayed in enqueue order. An action
// that fails its third replay is dropped and logged, never surfaced to the
// rider.
type Queue struct {
	store    ActionStore
	replayer Replayer
	logger   *slog.Logger

	syncing atomic.Bool
}

// NewQueue creates a queue over the given store and replayer.
func NewQueue(store ActionStore, replayer Replayer, logger *slog.Logger) *Queue {
	return &Queue{
		store:    store,
		replayer: replayer,
		logger:   logger.With("component", "offline_queue"),
	}
}

// Enqueue persists an action for later sync.
func (q *Queue) Enqueue(ctx context.Context, action pending.Action) error {
	if err := q.store.Append(ctx, action); err != nil {
		return err
	}

	metrics.OfflineActionsEnqueued.Inc()
	q.logger.InfoContext(ctx, "action queued for sync",
		"action_id", action.ID.String(),
		"type", string(action.Type),
		"order_id", action.OrderID.String())
	return nil
}

// Sync replays every pending action once, in enqueue order. A pass already
// in progress suppresses the new request. Only store failures are returned;
// replay failures are absorbed into retry bookkeeping.
func (q *Queue) Sync(ctx context.Context) error {
	if !q.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer q.syncing.Store(false)

	actions, err := q.store.List(ctx)
	if err != nil {
		return err
	}

	for _, action := range actions {
		if err = ctx.Err(); err != nil {
			return err
		}

		if replayErr := q.replayer.Replay(ctx, action); replayErr == nil {
			if err = q.store.Delete(ctx, action.ID); err != nil {
				return err
			}

			metrics.OfflineActionsReplayed.WithLabelValues("ok").Inc()
			continue
		} else if retryErr := action.Retry(); retryErr != nil || action.Exhausted() {
			if err = q.store.Delete(ctx, action.ID); err != nil {
				return err
			}

			metrics.OfflineActionsReplayed.WithLabelValues("dropped").Inc()
			q.logger.WarnContext(ctx, "action dropped after exhausting retries",
				"action_id", action.ID.String(),
				"type", string(action.Type),
				"order_id", action.OrderID.String(),
				"error", replayErr)
			continue
		}

		if err = q.store.Update(ctx, action); err != nil {
			return err
		}

		metrics.OfflineActionsReplayed.WithLabelValues("retry").Inc()
	}

	return nil
}

// Run syncs on every online edge from the connectivity channel and on a
// fixed safety interval, until the context is cancelled.
func (q *Queue) Run(ctx context.Context, online <-chan bool) {
	ticker := time.NewTicker(SafetyPassInterval)
	defer ticker.Stop()

	wasOnline := true
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-online:
			if !ok {
				return
			}

			if state && !wasOnline {
				q.syncPass(ctx)
			}
			wasOnline = state
		case <-ticker.C:
			q.syncPass(ctx)
		}
	}
}

func (q *Queue) syncPass(ctx context.Context) {
	if err := q.Sync(ctx); err != nil && ctx.Err() == nil {
		q.logger.ErrorContext(ctx, "sync pass failed", "error", err)
	}
}
