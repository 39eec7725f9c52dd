// Package metadata persists small key/value state: the session token, the
// signed-in user and the last successful sync time.
package metadata

import "context"

// Well-known metadata keys.
const (
	KeyAccessToken = "access_token"
	KeyUsername    = "username"
	KeyLastSyncAt  = "last_sync_at"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
