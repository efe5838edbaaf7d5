package redis

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "wallet:1", []byte(`{"id":"1"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	data, err := cache.Get(ctx, "wallet:1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != `{"id":"1"}` {
		t.Fatalf("unexpected cached value: %s", data)
	}

	if err := cache.Delete(ctx, "wallet:1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	data, err = cache.Get(ctx, "wallet:1")
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected miss after delete, got %s", data)
	}
}

func TestCache_MissReturnsNil(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	data, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil on miss, got %s", data)
	}
}
