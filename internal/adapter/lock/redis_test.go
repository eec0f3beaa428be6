package lock

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTryLock_ExclusiveUntilReleased(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLocker(rdb)
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx, "k", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL("k"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("lease TTL not set: %v", ttl)
	}

	if _, ok, err := l.TryLock(ctx, "k", time.Minute); err != nil || ok {
		t.Fatalf("second TryLock must fail while held: ok=%v err=%v", ok, err)
	}

	release()
	if mr.Exists("k") {
		t.Fatalf("release should delete the key")
	}
	if _, ok, _ := l.TryLock(ctx, "k", time.Minute); !ok {
		t.Fatalf("TryLock after release should succeed")
	}
}

func TestRelease_DoesNotDeleteForeignLease(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLocker(rdb)

	release, ok, _ := l.TryLock(context.Background(), "k", time.Minute)
	if !ok {
		t.Fatalf("TryLock failed")
	}
	// lease expired and was taken by another instance
	if err := mr.Set("k", "someone-else"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	release()
	if got, _ := mr.Get("k"); got != "someone-else" {
		t.Fatalf("foreign lease was removed: %q", got)
	}
}
