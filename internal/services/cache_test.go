package services

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheFreshness(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	if err := c.Set(ctx, "quote:v1:AAPL", []byte(`{"price":150}`), 60*time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := c.Get(ctx, "quote:v1:AAPL"); !ok {
		t.Fatal("expected fresh entry to be returned")
	}

	time.Sleep(90 * time.Millisecond)
	if _, ok := c.Get(ctx, "quote:v1:AAPL"); ok {
		t.Fatal("expected stale entry to be absent")
	}
}

func TestMemoryCacheKeyCaseInsensitive(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	if err := c.Set(ctx, "quote:v1:AAPL", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	b, ok := c.Get(ctx, "quote:v1:aapl")
	if !ok {
		t.Fatal("expected differently-cased key to hit the same entry")
	}
	if string(b) != "v" {
		t.Fatalf("unexpected value: %q", b)
	}
}

func TestMemoryCacheReplacement(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	_ = c.Set(ctx, "quote:v1:AAPL", []byte("first"), time.Minute)
	_ = c.Set(ctx, "quote:v1:AAPL", []byte("second"), time.Minute)

	b, ok := c.Get(ctx, "quote:v1:AAPL")
	if !ok {
		t.Fatal("expected entry after replacement")
	}
	if string(b) != "second" {
		t.Fatalf("expected second value to win, got %q", b)
	}
}
