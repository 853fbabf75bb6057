package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of change events.
type Queuer interface {
	Push(ctx context.Context, qid string, ev ChangeEvent) error
	Pop(ctx context.Context, qids ...string) (string, ChangeEvent, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an event onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, ev ChangeEvent) error {
	evBytes, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, evBytes).Err()
}

// Pop blocks until an event is available on one of the queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, ChangeEvent, error) {
	var ev ChangeEvent
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, ev, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &ev); err != nil {
		return qid, ev, err
	}
	qid = infos[0]
	return qid, ev, nil
}

// ForwardChanges pushes every received change notification onto the queue
// qid until the context is done or the channel is closed.
func ForwardChanges(ctx context.Context, logger *zap.Logger, changes <-chan ChangeEvent, q Queuer, qid string) error {
	for {
		select {
		case <-ctx.Done():
			logger.Info("forwarder: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		case ev, ok := <-changes:
			if !ok {
				return nil
			}
			if err := q.Push(ctx, qid, ev); err != nil {
				logger.Error("forwarder: failed to push change to queue", zap.String("qid", qid), zap.Any("change", ev), zap.Error(err))
			}
		}
	}
}
