package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

const DefaultGroup = "notifier"

// Sender delivers one event over its channels.
type Sender interface {
	Send(ctx context.Context, e notification.Event) error
}

// Consumer reads the notification stream through a consumer group and
// hands each event to a Sender. An entry is acknowledged only after a
// successful send; failed entries stay pending and are retried by the
// same consumer on its next poll.
type Consumer struct {
	rdb      *redis.Client
	sender   Sender
	stream   string
	group    string
	name     string
	batch    int64
	interval time.Duration
}

func NewConsumer(rdb *redis.Client, sender Sender, stream, group, name string) *Consumer {
	if stream == "" {
		stream = DefaultStream
	}
	if group == "" {
		group = DefaultGroup
	}
	if name == "" {
		name = "worker-1"
	}
	return &Consumer{
		rdb:      rdb,
		sender:   sender,
		stream:   stream,
		group:    group,
		name:     name,
		batch:    50,
		interval: 2 * time.Second,
	}
}

// EnsureGroup creates the stream and group if needed.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Poll retries this consumer's pending entries, then reads one batch of
// new ones, without blocking. It returns how many events were delivered.
func (c *Consumer) Poll(ctx context.Context) (int, error) {
	retried, err := c.read(ctx, "0")
	if err != nil {
		return retried, err
	}
	fresh, err := c.read(ctx, ">")
	return retried + fresh, err
}

// read: id "0" re-reads entries delivered to this consumer but never
// acked; ">" reads entries no consumer has seen.
func (c *Consumer) read(ctx context.Context, id string) (int, error) {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, id},
		Count:    c.batch,
		Block:    -1,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, s := range streams {
		for _, msg := range s.Messages {
			e, err := decode(msg)
			if err != nil {
				// poison entry: ack so it does not block the group forever
				log.Printf("notify: drop %s: %v", msg.ID, err)
				_ = c.rdb.XAck(ctx, c.stream, c.group, msg.ID).Err()
				continue
			}
			if err := c.sender.Send(ctx, e); err != nil {
				log.Printf("notify: send %s (%s to %s) failed: %v", msg.ID, e.Kind, e.UserID, err)
				continue
			}
			if err := c.rdb.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
				return delivered, err
			}
			delivered++
		}
	}
	return delivered, nil
}

// Run polls until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		if _, err := c.Poll(ctx); err != nil && ctx.Err() == nil {
			log.Printf("notify: poll: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func decode(msg redis.XMessage) (notification.Event, error) {
	var e notification.Event
	raw, ok := msg.Values["payload"].(string)
	if !ok {
		return e, fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, err
	}
	return e, nil
}
