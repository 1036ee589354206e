package rate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenBucketFirstWaitImmediate(t *testing.T) {
	tb := NewTokenBucket(1)
	defer tb.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := tb.Wait(ctx); err != nil {
		t.Fatalf("first wait should not block: %v", err)
	}
}

func TestTokenBucketWaitCanceled(t *testing.T) {
	tb := NewTokenBucket(1)
	defer tb.Stop()

	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("drain initial token: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tb.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTokenBucketStopReturns(t *testing.T) {
	tb := NewTokenBucket(50)
	done := make(chan struct{})
	go func() {
		tb.Stop()
		tb.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stop did not return")
	}
}
