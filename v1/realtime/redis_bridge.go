package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/legalese-navigator/portal-backend/v1/models"
	"github.com/redis/go-redis/v9"
)

const notificationChannel = "notifications.events"

// localSink receives events decoded off the redis channel; in production it
// is always the instance's hub
type localSink interface {
	Publish(event *models.NotificationEvent) error
}

// RedisBridge fans notification events out across instances. Publish sends
// to a redis channel; every instance's subscriber delivers to its local hub,
// so a user connected to any instance receives the event.
type RedisBridge struct {
	client *redis.Client
	hub    localSink
}

// NewRedisBridge connects to redis and wraps the local hub
func NewRedisBridge(addr, password string, db int, hub *Hub) (*RedisBridge, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisBridge{client: rdb, hub: hub}, nil
}

// Publish sends the event through redis instead of directly to the hub
func (b *RedisBridge) Publish(event *models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, notificationChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe consumes the redis channel and delivers events to the local hub.
// Blocks until the context is cancelled.
func (b *RedisBridge) Subscribe(ctx context.Context) {
	sub := b.client.Subscribe(ctx, notificationChannel)
	defer sub.Close()

	slog.Info("Redis notification bridge subscribed", "channel", notificationChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Redis notification bridge stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.handleMessage(msg.Payload)
		}
	}
}

// handleMessage decodes a channel payload and delivers it to the local hub.
// Malformed payloads and delivery failures are logged and skipped; they must
// not stop the subscriber loop.
func (b *RedisBridge) handleMessage(payload string) {
	var event models.NotificationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.Warn("Failed to decode notification event from redis", "error", err)
		return
	}

	if err := b.hub.Publish(&event); err != nil {
		slog.Warn("Failed to deliver notification event locally", "notificationID", event.NotificationID, "error", err)
	}
}

// Close releases the redis connection
func (b *RedisBridge) Close() error {
	return b.client.Close()
}
