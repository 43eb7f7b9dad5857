package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestReleaseReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	l := NewLocker(client)

	err := l.release(context.Background(), "therapy-booking:test", "token")
	if err == nil {
		t.Fatal("expected release error when redis is unreachable")
	}
	if errors.Is(err, ErrLockExpired) {
		t.Fatalf("connection failure reported as expiry: %v", err)
	}
}

func TestTryLockReportsUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	release, ok, err := NewLocker(client).TryLock(context.Background(), "therapy-booking:test", time.Second)
	if err == nil || ok {
		t.Fatalf("expected lock error, got ok=%v err=%v", ok, err)
	}
	if err := release(); err != nil {
		t.Fatalf("release after failed lock must be a no-op, got %v", err)
	}
}
