// ABOUTME: Credit balance reconciliation against the backend
// ABOUTME: Fetches the authoritative balance and overwrites the session cache

package credits

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/the-sauravkumar/credit-based-document-matching/internal/client"
	"github.com/the-sauravkumar/credit-based-document-matching/internal/session"
)

// SentinelNA is rendered when no username is available to query
const SentinelNA = "Credits: N/A"

// SentinelError is rendered when the balance cannot be fetched or parsed
const SentinelError = "Credits: Error"

// ErrNoUser is returned when refreshing without a cached username
var ErrNoUser = fmt.Errorf("no username available")

// Refresher reconciles the locally cached balance with the server. This is
// the single point where the cache is overwritten; everywhere else the
// cached value is a pre-flight hint only.
type Refresher struct {
	api   *client.Client
	cache *session.Cache
	group singleflight.Group
}

// NewRefresher creates a Refresher over the given client and cache
func NewRefresher(api *client.Client, cache *session.Cache) *Refresher {
	return &Refresher{api: api, cache: cache}
}

// Refresh fetches the balance for username and overwrites the cache on
// success. On any failure the cache is left untouched. Concurrent refreshes
// for the same user are collapsed into one request.
func (r *Refresher) Refresh(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, ErrNoUser
	}

	v, err, _ := r.group.Do(username, func() (interface{}, error) {
		return r.api.Balance(ctx, username)
	})
	if err != nil {
		slog.Debug("balance refresh failed", "user", username, "err", err)
		return 0, err
	}

	balance := v.(int)
	r.cache.Credits = balance
	if err := r.cache.Save(); err != nil {
		slog.Warn("failed to persist refreshed balance", "err", err)
	}
	return balance, nil
}

// Display formats a refresh result the way the dashboard shows it
func Display(balance int, err error) string {
	if err == ErrNoUser {
		return SentinelNA
	}
	if err != nil {
		return SentinelError
	}
	return fmt.Sprintf("Credits: %d", balance)
}
