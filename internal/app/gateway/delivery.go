package gateway

import (
	"context"
	"encoding/json"

	"github.com/souravsouru7/barbez/internal/core/contracts"
	"github.com/souravsouru7/barbez/internal/core/domain"
)

// Send serializes the envelope and writes it to the identity's live
// connection. An absent or no-longer-open connection yields a not-connected
// outcome; stale entries are left for the close event to evict.
func (g *Gateway) Send(ctx context.Context, identity string, envelope any) domain.Delivery {
	conn, ok := g.reg.Lookup(identity)
	if !ok || !conn.Open() {
		return domain.Delivery{Delivered: false, Reason: domain.ReasonNotConnected}
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway - send - marshal failed", "identity", identity, "err", err)
		return domain.Delivery{Delivered: false, Reason: domain.ReasonNotConnected}
	}
	if err := conn.Send(ctx, data); err != nil {
		g.log.DebugContext(ctx, "gateway - send - write failed", "identity", identity, "err", err)
		return domain.Delivery{Delivered: false, Reason: domain.ReasonNotConnected}
	}
	return domain.Delivery{Delivered: true}
}

// Broadcast writes the envelope to every registered identity except exclude
// and returns how many writes went through. No per-recipient acknowledgment
// is collected; this path only carries status updates.
func (g *Gateway) Broadcast(ctx context.Context, envelope any, exclude string) int {
	data, err := json.Marshal(envelope)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway - broadcast - marshal failed", "err", err)
		return 0
	}
	delivered := 0
	for _, e := range g.reg.All() {
		if e.Identity == exclude || !e.Conn.Open() {
			continue
		}
		if err := e.Conn.Send(ctx, data); err == nil {
			delivered++
		}
	}
	return delivered
}

// writeTo answers on a specific connection, identified or not. Used for the
// greeting and for error/system replies to the originating connection.
func (g *Gateway) writeTo(ctx context.Context, conn contracts.Conn, envelope any) {
	data, err := json.Marshal(envelope)
	if err != nil {
		g.log.ErrorContext(ctx, "gateway - write - marshal failed", "err", err)
		return
	}
	if !conn.Open() {
		return
	}
	if err := conn.Send(ctx, data); err != nil {
		g.log.DebugContext(ctx, "gateway - write - write failed", "err", err)
	}
}

var _ contracts.Pusher = (*Gateway)(nil)
