package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestAllowWithinBurst(t *testing.T) {
	limiter := New(10, 10)

	for i := 0; i < 10; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}

	if limiter.Allow() {
		t.Fatal("request beyond burst should be rejected")
	}
}

func TestUnlimited(t *testing.T) {
	limiter := New(0, 0)

	for i := 0; i < 1000; i++ {
		if !limiter.Allow() {
			t.Fatalf("unlimited limiter rejected request %d", i)
		}
	}
}

func TestWaitRespectsCancellation(t *testing.T) {
	limiter := New(1, 1)

	// Drain the bucket so Wait has to block.
	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("Wait should fail when the context expires first")
	}
}
