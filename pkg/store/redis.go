package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"Order-Intake-Service/pkg/order"
)

const enqueueFailedIndexKey = "orders:index:enqueue_failed"

// RedisStore persists order records as JSON values keyed by orderID.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store backed by the redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies connectivity, for startup checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func orderKey(orderID string) string {
	return fmt.Sprintf("orders:record:%s", orderID)
}

// PutNew persists rec under its orderID using SETNX, so an existing record is
// never overwritten: a key collision surfaces as ErrConflict.
func (s *RedisStore) PutNew(ctx context.Context, rec order.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", rec.OrderID, err)
	}
	created, err := s.client.SetNX(ctx, orderKey(rec.OrderID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("put order %s: %w", rec.OrderID, err)
	}
	if !created {
		return ErrConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, orderID string) (order.Record, error) {
	data, err := s.client.Get(ctx, orderKey(orderID)).Bytes()
	if err == redis.Nil {
		return order.Record{}, ErrNotFound
	}
	if err != nil {
		return order.Record{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	var rec order.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return order.Record{}, fmt.Errorf("unmarshal order %s: %w", orderID, err)
	}
	return rec, nil
}

// UpdateStatus rewrites the stored record with the new status and maintains
// the enqueue-failed index: ENQUEUE_FAILED adds the orderID, any other status
// removes it.
func (s *RedisStore) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	rec, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}
	rec.Status = status
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", orderID, err)
	}
	if err := s.client.Set(ctx, orderKey(orderID), data, 0).Err(); err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	if status == order.StatusEnqueueFailed {
		err = s.client.SAdd(ctx, enqueueFailedIndexKey, orderID).Err()
	} else {
		err = s.client.SRem(ctx, enqueueFailedIndexKey, orderID).Err()
	}
	if err != nil {
		return fmt.Errorf("update enqueue-failed index for %s: %w", orderID, err)
	}
	return nil
}

func (s *RedisStore) ListEnqueueFailed(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, enqueueFailedIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list enqueue-failed orders: %w", err)
	}
	return ids, nil
}
