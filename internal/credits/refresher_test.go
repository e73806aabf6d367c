// ABOUTME: Tests for credit balance reconciliation
// ABOUTME: Verifies cache overwrite rules and display sentinels

package credits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/session"
)

func TestRefresh_OverwritesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"credits": 42})
	}))
	defer server.Close()

	cache := session.New(t.TempDir())
	cache.Username = "alice"
	cache.Credits = 5

	r := NewRefresher(client.New(server.URL), cache)
	balance, err := r.Refresh(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 42 {
		t.Errorf("expected 42, got %d", balance)
	}
	if cache.Credits != 42 {
		t.Errorf("expected cache overwritten to 42, got %d", cache.Credits)
	}
}

func TestRefresh_ZeroOverwritesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"credits": 0})
	}))
	defer server.Close()

	cache := session.New(t.TempDir())
	cache.Username = "alice"
	cache.Credits = 9

	r := NewRefresher(client.New(server.URL), cache)
	balance, err := r.Refresh(context.Background(), "alice")
	if err != nil {
		t.Fatalf("zero balance is valid: %v", err)
	}
	if balance != 0 || cache.Credits != 0 {
		t.Errorf("expected cache set to 0, got balance=%d cache=%d", balance, cache.Credits)
	}
}

func TestRefresh_FailureLeavesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "no credits field"})
	}))
	defer server.Close()

	cache := session.New(t.TempDir())
	cache.Username = "alice"
	cache.Credits = 7

	r := NewRefresher(client.New(server.URL), cache)
	if _, err := r.Refresh(context.Background(), "alice"); err == nil {
		t.Fatal("expected error for malformed response")
	}
	if cache.Credits != 7 {
		t.Errorf("cache must stay untouched on failure, got %d", cache.Credits)
	}
}

func TestRefresh_NoUser(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	r := NewRefresher(client.New(server.URL), session.New(t.TempDir()))
	_, err := r.Refresh(context.Background(), "")
	if !errors.Is(err, ErrNoUser) {
		t.Errorf("expected ErrNoUser, got %v", err)
	}
	if hits != 0 {
		t.Errorf("expected no request without a username, got %d", hits)
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name    string
		balance int
		err     error
		want    string
	}{
		{"ok", 12, nil, "Credits: 12"},
		{"zero", 0, nil, "Credits: 0"},
		{"no user", 0, ErrNoUser, SentinelNA},
		{"fetch failed", 0, errors.New("boom"), SentinelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.balance, tt.err); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}
