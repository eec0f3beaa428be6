package notify

import (
	"context"
	"encoding/json"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "library:notifications"
	// Stream is trimmed (approximately) to this many entries.
	defaultMaxLen = 100_000
)

// RedisPublisher appends events to a Redis stream. Delivery happens in a
// Consumer, possibly in another process.
type RedisPublisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisPublisher(rdb *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{rdb: rdb, stream: stream, maxLen: defaultMaxLen}
}

func (p *RedisPublisher) Publish(ctx context.Context, e notification.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"kind":    string(e.Kind),
			"user_id": e.UserID,
			"payload": string(payload),
		},
	}).Err()
}
