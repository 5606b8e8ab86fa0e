package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestMemoryStoreRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := store.Set(ctx, "https://example.com", []byte(`{"score":45}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := store.Get(ctx, "https://example.com")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(val) != `{"score":45}` {
		t.Fatalf("unexpected value %q", val)
	}

	now = now.Add(59 * time.Minute)
	if _, ok, _ := store.Get(ctx, "https://example.com"); !ok {
		t.Fatalf("expected hit before ttl")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := store.Get(ctx, "https://example.com"); ok {
		t.Fatalf("expected miss at ttl")
	}
}

func TestMemoryStoreOverwriteAndCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("first")
	_ = store.Set(ctx, "k", buf, 0)
	buf[0] = 'X'
	_ = store.Set(ctx, "k", []byte("second"), 0)

	val, ok, _ := store.Get(ctx, "k")
	if !ok || string(val) != "second" {
		t.Fatalf("expected last write to win, got %q", val)
	}
	val[0] = 'Y'
	again, _, _ := store.Get(ctx, "k")
	if string(again) != "second" {
		t.Fatalf("expected Get to return a copy, got %q", again)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	val, ok, err := NewMemoryStore().Get(context.Background(), "missing")
	if err != nil || ok || val != nil {
		t.Fatalf("expected clean miss, got %q %v %v", val, ok, err)
	}
}

func TestRedisStoreGetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStore{Client: db, Prefix: "seo:analysis:"}

	mock.ExpectGet("seo:analysis:https://example.com").SetVal(`{"score":80}`)

	val, ok, err := store.Get(context.Background(), "https://example.com")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(val) != `{"score":80}` {
		t.Fatalf("unexpected value %q", val)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestRedisStoreGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStore{Client: db, Prefix: "p:"}

	mock.ExpectGet("p:k").RedisNil()

	_, ok, err := store.Get(context.Background(), "k")
	if err != nil || ok {
		t.Fatalf("expected miss without error, got ok=%v err=%v", ok, err)
	}
}

func TestRedisStoreGetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStore{Client: db}

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))

	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRedisStoreSet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStore{Client: db, Prefix: "seo:analysis:"}

	mock.ExpectSet("seo:analysis:https://example.com", []byte(`{}`), time.Hour).SetVal("OK")

	if err := store.Set(context.Background(), "https://example.com", []byte(`{}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
