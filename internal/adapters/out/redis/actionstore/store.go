// Package actionstore persists the rider's offline action queue on Redis.
// A list key holds action ids in enqueue order and a hash key holds each
// action's JSON body, so replay walks the queue in FIFO order while retry
// bookkeeping updates a single hash field.
package actionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/pending"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/services/offline"
)

const (
	orderKey = "rider:pending:order"
	bodyKey  = "rider:pending:actions"
)

type actionDTO struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	Type       string    `json:"type"`
	Payload    []byte    `json:"payload"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	RetryCount int       `json:"retry_count"`
}

// RedisActionStore implements offline.ActionStore on a Redis client.
type RedisActionStore struct {
	client *redis.Client
}

var _ offline.ActionStore = &RedisActionStore{}

// NewRedisActionStore creates a store over the given client.
func NewRedisActionStore(client *redis.Client) (*RedisActionStore, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}

	return &RedisActionStore{client: client}, nil
}

// Append persists an action at the tail of the queue.
func (s *RedisActionStore) Append(ctx context.Context, action pending.Action) error {
	payload, err := marshalAction(action)
	if err != nil {
		return err
	}

	id := action.ID.String()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, orderKey, id)
		pipe.HSet(ctx, bodyKey, id, payload)
		return nil
	})
	return err
}

// List returns every queued action in enqueue order.
func (s *RedisActionStore) List(ctx context.Context) ([]pending.Action, error) {
	ids, err := s.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	actions := make([]pending.Action, 0, len(ids))
	for _, id := range ids {
		raw, getErr := s.client.HGet(ctx, bodyKey, id).Result()
		if errors.Is(getErr, redis.Nil) {
			continue
		}
		if getErr != nil {
			return nil, getErr
		}

		action, parseErr := unmarshalAction([]byte(raw))
		if parseErr != nil {
			return nil, parseErr
		}

		actions = append(actions, action)
	}

	return actions, nil
}

// Update rewrites an action's body, keeping its queue position.
func (s *RedisActionStore) Update(ctx context.Context, action pending.Action) error {
	payload, err := marshalAction(action)
	if err != nil {
		return err
	}

	return s.client.HSet(ctx, bodyKey, action.ID.String(), payload).Err()
}

// Delete removes an action from the queue.
func (s *RedisActionStore) Delete(ctx context.Context, id kernel.UUID) error {
	key := id.String()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, orderKey, 1, key)
		pipe.HDel(ctx, bodyKey, key)
		return nil
	})
	return err
}

func marshalAction(action pending.Action) ([]byte, error) {
	return json.Marshal(actionDTO{
		ID:         action.ID.String(),
		OrderID:    action.OrderID.String(),
		Type:       string(action.Type),
		Payload:    action.Payload,
		EnqueuedAt: action.EnqueuedAt,
		RetryCount: action.RetryCount,
	})
}

func unmarshalAction(raw []byte) (pending.Action, error) {
	var dto actionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return pending.Action{}, err
	}

	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return pending.Action{}, err
	}

	orderID, err := kernel.UUIDFromString(dto.OrderID)
	if err != nil {
		return pending.Action{}, err
	}

	actionType, err := pending.ActionTypeFromString(dto.Type)
	if err != nil {
		return pending.Action{}, err
	}

	return pending.Action{
		ID:         id,
		OrderID:    orderID,
		Type:       actionType,
		Payload:    dto.Payload,
		EnqueuedAt: dto.EnqueuedAt,
		RetryCount: dto.RetryCount,
	}, nil
}
