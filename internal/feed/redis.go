package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Publisher and Subscriber over Redis Pub/Sub, one
// channel per table ("changefeed:items").
type Redis struct {
	client *redis.Client
}

// NewRedis connects a Redis-backed change feed.
func NewRedis(addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: rdb}, nil
}

func channelFor(table string) string {
	return "changefeed:" + table
}

// Publish sends the event to the table's channel.
func (r *Redis) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channelFor(ev.Table), payload).Err()
}

// Subscribe listens for events on the table's channel. Decoding runs in
// a goroutine until the subscription is cancelled.
func (r *Redis) Subscribe(ctx context.Context, table string) (<-chan Event, func(), error) {
	pubsub := r.client.Subscribe(ctx, channelFor(table))

	// Force the subscription to be established before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channelFor(table), err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("WARNING: changefeed: dropping unparseable message: %v", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { pubsub.Close() }
	return out, cancel, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
