package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryRetriesRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("Retry error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent error)", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	transient := errors.New("still down")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: transient}
	})
	if !errors.Is(err, transient) {
		t.Errorf("Retry error = %v, want wrapped %v", err, transient)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry error = %v, want context.Canceled", err)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	type payload struct {
		Label string  `json:"label"`
		East  float64 `json:"east"`
	}
	want := payload{Label: "S8-1", East: 10.5}

	if err := c.Set("stations", want); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	var got payload
	ok, err := c.Get("stations", &got)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var v string
	ok, err := c.Get("absent", &v)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	var v string
	ok, err := c.Get("key", &v)
	if ok {
		t.Error("expected expired entry to be reported as miss")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Get error = %v, want ErrExpired", err)
	}
}

func TestCacheNamespace(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	a := c.Namespace("a:")
	b := c.Namespace("b:")

	if err := a.Set("key", "from-a"); err != nil {
		t.Fatal(err)
	}

	var v string
	if ok, _ := b.Get("key", &v); ok {
		t.Error("namespaces should not share keys")
	}
	if ok, _ := a.Get("key", &v); !ok || v != "from-a" {
		t.Errorf("namespace a Get = (%v, %q), want hit with from-a", ok, v)
	}
}
