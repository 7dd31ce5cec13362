package store

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	s, err := NewRedis(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisURLValidation(t *testing.T) {
	if _, err := NewRedis(""); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewRedis("http://localhost:6379"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestRedisSetGetExpiry(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), 30*time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	raw, err := s.Get(ctx, "k")
	if err != nil || !bytes.Equal(raw, []byte("v")) {
		t.Fatalf("Get: %q %v", raw, err)
	}

	mr.FastForward(31 * time.Minute)
	raw, err = s.Get(ctx, "k")
	if err != nil || raw != nil {
		t.Fatalf("expected (nil, nil) after expiry, got (%q, %v)", raw, err)
	}
}

func TestRedisSetNX(t *testing.T) {
	s, _ := newTestRedis(t)
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "k", []byte("first"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX: ok=%v err=%v", ok, err)
	}
	ok, err = s.SetNX(ctx, "k", []byte("second"), time.Minute)
	if err != nil || ok {
		t.Fatalf("second SetNX should lose: ok=%v err=%v", ok, err)
	}
}

func TestRedisRefreshTTLExtendsLife(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), 30*time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	mr.FastForward(20 * time.Minute)
	if err := s.RefreshTTL(ctx, 30*time.Minute, "k"); err != nil {
		t.Fatalf("RefreshTTL: %v", err)
	}
	mr.FastForward(20 * time.Minute)
	raw, err := s.Get(ctx, "k")
	if err != nil || raw == nil {
		t.Fatalf("expected key alive after refresh, got (%q, %v)", raw, err)
	}
}

func TestRedisListAppendOrderAndExpiry(t *testing.T) {
	s, mr := newTestRedis(t)
	ctx := context.Background()

	for _, v := range []string{"a", "b", "c"} {
		if err := s.AppendToList(ctx, "l", []byte(v), 30*time.Minute); err != nil {
			t.Fatalf("AppendToList: %v", err)
		}
	}
	items, err := s.GetList(ctx, "l")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(items) != 3 || string(items[0]) != "a" || string(items[2]) != "c" {
		t.Fatalf("unexpected list: %q", items)
	}

	mr.FastForward(31 * time.Minute)
	items, err = s.GetList(ctx, "l")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list after expiry, got %q %v", items, err)
	}
}
