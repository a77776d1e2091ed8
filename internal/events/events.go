// Package events broadcasts playlist changes to Redis subscribers.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"setlist/internal/logging"
)

// Channel is the Redis pub/sub channel events are published on.
const Channel = "broadcast"

const (
	PlaylistCreated     = "playlist.created"
	PlaylistUpdated     = "playlist.updated"
	PlaylistDeleted     = "playlist.deleted"
	PlaylistSongAdded   = "playlist.song_added"
	PlaylistSongMoved   = "playlist.song_moved"
	PlaylistSongRemoved = "playlist.song_removed"
)

// Event is the message body subscribers receive.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// RedisPublisher publishes events best-effort: failures are logged, never
// returned to the caller.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

// NewRedisPublisher publishes on Channel through rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: Channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	if p == nil || p.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		logging.WithContext(ctx).Error().Err(err).Str("event", event.Type).Msg("marshal event")
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		logging.WithContext(ctx).Error().Err(err).Str("event", event.Type).Msg("publish event")
	}
}

// Nop drops every event. It is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
