package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDisabledCache_GetReturnsMiss(t *testing.T) {
	c, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Enabled() {
		t.Error("expected cache to be disabled with empty URL")
	}

	var out map[string]string
	if err := c.GetJSON(context.Background(), "k", &out); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestDisabledCache_SetAndDeleteAreNoops(t *testing.T) {
	c, _ := New(context.Background(), "")
	if err := c.SetJSON(context.Background(), "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Errorf("expected no-op set, got %v", err)
	}
	if err := c.Delete(context.Background(), "k"); err != nil {
		t.Errorf("expected no-op delete, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("expected no-op close, got %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "not-a-redis-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func TestNilCache_Enabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Error("nil cache should report disabled")
	}
}
