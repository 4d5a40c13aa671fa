package contracts

import (
	"context"

	"github.com/souravsouru7/barbez/internal/core/domain"
)

// Pusher delivers an envelope to the live connection of a party, if any.
// It is how the REST bridge reaches the WebSocket gateway: persistence always
// happens first, and a failed push never rolls it back.
type Pusher interface {
	Send(ctx context.Context, identity string, envelope any) domain.Delivery
	// Broadcast writes the envelope to every registered party except
	// exclude (empty string excludes nobody) and returns the delivered count.
	Broadcast(ctx context.Context, envelope any, exclude string) int
}
