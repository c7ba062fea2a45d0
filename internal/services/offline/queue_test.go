package offline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
)

type memoryStore struct {
	actions []pending.Action
	err     error
}

func (s *memoryStore) Append(_ context.Context, action pending.Action) error {
	if s.err != nil {
		return s.err
	}
	s.actions = append(s.actions, action)
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]pending.Action, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]pending.Action, len(s.actions))
	copy(out, s.actions)
	return out, nil
}

func (s *memoryStore) Update(_ context.Context, action pending.Action) error {
	for i := range s.actions {
		if s.actions[i].ID.IsEqual(action.ID) {
			s.actions[i] = action
			return nil
		}
	}
	return errors.New("action not found")
}

func (s *memoryStore) Delete(_ context.Context, id kernel.UUID) error {
	for i := range s.actions {
		if s.actions[i].ID.IsEqual(id) {
			s.actions = append(s.actions[:i], s.actions[i+1:]...)
			return nil
		}
	}
	return errors.New("action not found")
}

type scriptedReplayer struct {
	results  map[string][]error // action id -> result per attempt
	attempts map[string]int
	replayed []string
}

func newScriptedReplayer() *scriptedReplayer {
	return &scriptedReplayer{
		results:  make(map[string][]error),
		attempts: make(map[string]int),
	}
}

func (r *scriptedReplayer) script(id kernel.UUID, results ...error) {
	r.results[id.String()] = results
}

func (r *scriptedReplayer) Replay(_ context.Context, action pending.Action) error {
	key := action.ID.String()
	r.replayed = append(r.replayed, key)

	attempt := r.attempts[key]
	r.attempts[key]++

	script := r.results[key]
	if attempt < len(script) {
		return script[attempt]
	}
	return nil
}

func newTestAction(t *testing.T) pending.Action {
	t.Helper()

	action, err := pending.NewAction(
		kernel.NewUUID(), pending.ActionStatusUpdate,
		[]byte(`{"milestone":"picked_up"}`), time.Now().UTC())
	require.NoError(t, err)
	return action
}

func Test_Queue_EnqueuePersistsAction(t *testing.T) {
	store := &memoryStore{}
	q := NewQueue(store, newScriptedReplayer(), slog.New(slog.DiscardHandler))

	action := newTestAction(t)
	require.NoError(t, q.Enqueue(context.Background(), action))

	require.Len(t, store.actions, 1)
	assert.True(t, store.actions[0].ID.IsEqual(action.ID))
	assert.Equal(t, 0, store.actions[0].RetryCount)
}

func Test_Queue_SyncReplaysAndDeletesOnSuccess(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	first := newTestAction(t)
	second := newTestAction(t)
	require.NoError(t, q.Enqueue(context.Background(), first))
	require.NoError(t, q.Enqueue(context.Background(), second))

	require.NoError(t, q.Sync(context.Background()))

	assert.Empty(t, store.actions)
	assert.Equal(t, []string{first.ID.String(), second.ID.String()}, replayer.replayed)
}

func Test_Queue_SyncIncrementsRetryCountOnFailure(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	action := newTestAction(t)
	replayer.script(action.ID, errors.New("connection refused"))
	require.NoError(t, q.Enqueue(context.Background(), action))

	require.NoError(t, q.Sync(context.Background()))

	require.Len(t, store.actions, 1)
	assert.Equal(t, 1, store.actions[0].RetryCount)
}

func Test_Queue_DropsActionAfterThirdFailure(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	action := newTestAction(t)
	down := errors.New("connection refused")
	replayer.script(action.ID, down, down, down)
	require.NoError(t, q.Enqueue(context.Background(), action))

	require.NoError(t, q.Sync(context.Background()))
	require.NoError(t, q.Sync(context.Background()))
	require.Len(t, store.actions, 1, "two failures keep the action queued")

	require.NoError(t, q.Sync(context.Background()))
	assert.Empty(t, store.actions, "the third failure drops it")
	assert.Equal(t, 3, replayer.attempts[action.ID.String()])
}

func Test_Queue_SuccessBeforeExhaustionRemovesImmediately(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	action := newTestAction(t)
	replayer.script(action.ID, errors.New("connection refused"), nil)
	require.NoError(t, q.Enqueue(context.Background(), action))

	require.NoError(t, q.Sync(context.Background()))
	require.NoError(t, q.Sync(context.Background()))

	assert.Empty(t, store.actions)
	assert.Equal(t, 2, replayer.attempts[action.ID.String()])
}

func Test_Queue_FailedActionKeepsQueueOrder(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	stuck := newTestAction(t)
	fine := newTestAction(t)
	replayer.script(stuck.ID, errors.New("connection refused"))
	require.NoError(t, q.Enqueue(context.Background(), stuck))
	require.NoError(t, q.Enqueue(context.Background(), fine))

	require.NoError(t, q.Sync(context.Background()))

	// The failure did not block the action behind it.
	require.Len(t, store.actions, 1)
	assert.True(t, store.actions[0].ID.IsEqual(stuck.ID))
}

func Test_Queue_SyncIsNotReentrant(t *testing.T) {
	store := &memoryStore{}
	action := newTestAction(t)
	require.NoError(t, store.Append(context.Background(), action))

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	replayer := replayFunc(func(ctx context.Context, a pending.Action) error {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return nil
	})

	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	done := make(chan error, 1)
	go func() { done <- q.Sync(context.Background()) }()

	<-entered
	// A pass is in flight; this request must be suppressed.
	require.NoError(t, q.Sync(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, store.actions)
}

type replayFunc func(ctx context.Context, action pending.Action) error

func (f replayFunc) Replay(ctx context.Context, action pending.Action) error {
	return f(ctx, action)
}

func Test_Queue_SyncPropagatesStoreFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	q := NewQueue(store, newScriptedReplayer(), slog.New(slog.DiscardHandler))

	assert.Error(t, q.Sync(context.Background()))
}

func Test_Queue_RunSyncsOnOnlineEdge(t *testing.T) {
	store := &memoryStore{}
	replayer := newScriptedReplayer()
	q := NewQueue(store, replayer, slog.New(slog.DiscardHandler))

	action := newTestAction(t)
	require.NoError(t, q.Enqueue(context.Background(), action))

	ctx, cancel := context.WithCancel(context.Background())
	online := make(chan bool)
	stopped := make(chan struct{})
	go func() {
		q.Run(ctx, online)
		close(stopped)
	}()

	online <- false
	online <- true

	require.Eventually(t, func() bool {
		return len(replayer.replayed) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-stopped
	assert.Empty(t, store.actions)
}
