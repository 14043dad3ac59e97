package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mihaimyh/paybridge/pkg/billing"
)

// countingStore allows the first limit calls per key.
type countingStore struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
	err    error
}

func newCountingStore(limit int) *countingStore {
	return &countingStore{limit: limit, counts: make(map[string]int)}
}

func (s *countingStore) Allow(_ context.Context, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key] <= s.limit, nil
}

func TestAllow_BlocksOverLimit(t *testing.T) {
	store := newCountingStore(2)

	expected := []bool{true, true, false}
	for i, want := range expected {
		if got := Allow(context.Background(), store, &billing.NoopLogger{}, "198.51.100.10"); got != want {
			t.Errorf("call %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	store := newCountingStore(1)

	for _, key := range []string{"198.51.100.10", "198.51.100.11"} {
		if !Allow(context.Background(), store, &billing.NoopLogger{}, key) {
			t.Errorf("%s: expected first call to be allowed", key)
		}
	}
}

func TestAllow_FailsOpen(t *testing.T) {
	store := newCountingStore(0)
	store.err = errors.New("redis down")

	if !Allow(context.Background(), store, &billing.NoopLogger{}, "198.51.100.10") {
		t.Error("expected store errors to let the request through")
	}
}

func TestRemoteIP_IgnoresForwardingHeaders(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{"with port", "203.0.113.5:1234", "203.0.113.5"},
		{"without port", "203.0.113.5", "203.0.113.5"},
		{"ipv6", "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "1.2.3.4")
			if got := RemoteIP(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		expected   string
	}{
		{"remote addr with port", "203.0.113.5:1234", "", "203.0.113.5"},
		{"remote addr without port", "203.0.113.5", "", "203.0.113.5"},
		{"ipv6 remote addr", "[2001:db8::1]:443", "", "2001:db8::1"},
		{"forwarded single", "10.0.0.1:80", "198.51.100.7", "198.51.100.7"},
		{"forwarded chain", "10.0.0.1:80", " 198.51.100.7 , 10.0.0.2", "198.51.100.7"},
		{"forwarded empty first entry", "10.0.0.1:80", " ,10.0.0.2", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
