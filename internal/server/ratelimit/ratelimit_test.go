package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		if !bucket.allow() {
			t.Errorf("expected request %d to be allowed", i+1)
		}
	}

	if bucket.allow() {
		t.Error("expected 11th request to be denied")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 10; i++ {
		bucket.allow()
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.allow() {
		t.Error("expected request to be allowed after refill")
	}
	if bucket.allow() {
		t.Error("expected request to be denied after consuming refilled token")
	}
}

func TestTokenBucketStatus(t *testing.T) {
	bucket := newTokenBucket(10, 1.0)

	for i := 0; i < 5; i++ {
		bucket.allow()
	}

	remaining, resetTime := bucket.status()
	if remaining != 5 {
		t.Errorf("expected 5 remaining tokens, got %d", remaining)
	}
	if resetTime.Before(time.Now()) {
		t.Error("reset time should be in the future")
	}
}

func TestLimiterAllow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/schools", "GET")
		if !allowed {
			t.Errorf("expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("expected limit 10, got %d", info.Limit)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/schools", "GET")
	if allowed {
		t.Error("expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Error("expected positive retry-after")
	}
}

func TestLimiterWhitelist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/schools", "GET"); !allowed {
			t.Fatalf("whitelisted client denied on request %d", i+1)
		}
	}
}

func TestLimiterBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.5": true},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("10.0.0.5", "/schools", "GET"); allowed {
		t.Error("blacklisted client should be denied")
	}
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 1000; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/interview/start", "POST"); !allowed {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestLimiterSeparateClients(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		limiter.Allow("1.1.1.1", "/schools", "GET")
	}
	if allowed, _ := limiter.Allow("1.1.1.1", "/schools", "GET"); allowed {
		t.Error("first client should be limited")
	}
	if allowed, _ := limiter.Allow("2.2.2.2", "/schools", "GET"); !allowed {
		t.Error("second client should not share the first client's bucket")
	}
}

func TestLimiterConcurrent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/schools", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Refill during the race can admit one or two extra requests.
	if allowedCount < 100 || allowedCount > 105 {
		t.Errorf("expected roughly 100 allowed, got %d", allowedCount)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantLimit    int
	}{
		{"/interview/start", "POST", 20},
		{"/interview/abc-123/answer", "POST", 120},
		{"/interview/abc-123/reset", "POST", 120},
		{"/checkout", "POST", 10},
		{"/schools", "POST", 60},
		{"/schools/42", "PUT", 60},
		{"/reports", "POST", 30},
		{"/health", "GET", 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			ec := MatchEndpoint(tt.path, tt.method, configs)
			if ec == nil {
				t.Fatalf("expected a match for %s %s", tt.method, tt.path)
			}
			if ec.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", ec.Limit, tt.wantLimit)
			}
		})
	}

	if ec := MatchEndpoint("/schools", "GET", configs); ec != nil {
		t.Error("reads should fall through to the default limit")
	}
}
