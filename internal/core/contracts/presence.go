package contracts

import (
	"context"
	"time"
)

// PresenceStore tracks which parties currently hold a live connection, as a
// poll backstop for the statusUpdate push.
type PresenceStore interface {
	SetOnline(ctx context.Context, identity string, ttl time.Duration) error
	SetOffline(ctx context.Context, identity string) error
	IsOnline(ctx context.Context, identity string) (bool, error)
}
