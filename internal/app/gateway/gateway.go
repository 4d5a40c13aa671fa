package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/souravsouru7/barbez/internal/app/registry"
	"github.com/souravsouru7/barbez/internal/core/contracts"
	"github.com/souravsouru7/barbez/internal/core/domain"
)

var tracer = otel.Tracer("chat-gateway")

const presenceTTL = 5 * time.Minute

// Gateway owns the lifecycle of every chat connection: accept, identify,
// inbound dispatch and close. All registry mutation goes through here.
type Gateway struct {
	log      *slog.Logger
	reg      *registry.Registry
	presence contracts.PresenceStore
}

func NewGateway(log *slog.Logger, reg *registry.Registry, presence contracts.PresenceStore) *Gateway {
	return &Gateway{
		log:      log,
		reg:      reg,
		presence: presence,
	}
}

// Accept greets a freshly upgraded connection. The connection stays
// unidentified (unreachable by identity) until it sends an identity frame.
func (g *Gateway) Accept(ctx context.Context, conn contracts.Conn) {
	g.writeTo(ctx, conn, domain.SystemNotice{
		Type:    domain.KindSystem,
		Content: "Connected to the chat server",
	})
	g.log.InfoContext(ctx, "gateway - accept - connection greeted")
}

// HandleFrame parses one inbound frame and dispatches by kind. Faults are
// answered on the originating connection and never close it.
func (g *Gateway) HandleFrame(ctx context.Context, conn contracts.Conn, raw []byte) {
	in, err := domain.DecodeInbound(raw)
	if err != nil {
		content := "Invalid message format"
		if errors.Is(err, domain.ErrUnknownKind) {
			content = "Unknown message type"
		}
		g.writeTo(ctx, conn, domain.ErrorNotice{Type: domain.KindError, Content: content})
		g.log.WarnContext(ctx, "gateway - handle frame - rejected", "err", err)
		return
	}
	switch f := in.(type) {
	case domain.IdentityFrame:
		g.identify(ctx, conn, f.UserID)
	case domain.MessageFrame:
		g.route(ctx, f)
	}
}

// identify binds the connection to a party id. Last registration wins: a
// second device replaces the first without closing it.
func (g *Gateway) identify(ctx context.Context, conn contracts.Conn, identity string) {
	ctx, span := tracer.Start(ctx, "Gateway.Identify", trace.WithAttributes(
		attribute.String("chat.identity", identity),
	))
	defer span.End()
	g.reg.Register(identity, conn)
	g.writeTo(ctx, conn, domain.SystemNotice{
		Type:    domain.KindSystem,
		Content: "Identity registered successfully",
	})
	if err := g.presence.SetOnline(ctx, identity, presenceTTL); err != nil {
		span.RecordError(err)
		g.log.ErrorContext(ctx, "gateway - identify - presence update failed", "identity", identity, "err", err)
	}
	g.Broadcast(ctx, domain.StatusUpdate{
		Type:   domain.KindStatusUpdate,
		UserID: identity,
		Status: domain.StatusOnline,
	}, identity)
	g.log.InfoContext(ctx, "gateway - identify - identity registered", "identity", identity)
}

// route fans a message frame out as two independent deliveries: the envelope
// to the receiver and a "sent" receipt to the sender. Neither outcome is
// escalated; an offline receiver is normal and the history endpoint is the
// reconciliation path.
func (g *Gateway) route(ctx context.Context, f domain.MessageFrame) {
	ctx, span := tracer.Start(ctx, "Gateway.Route", trace.WithAttributes(
		attribute.String("chat.sender_id", f.SenderID),
		attribute.String("chat.receiver_id", f.ReceiverID),
		attribute.String("chat.room_id", f.ChatRoomID),
	))
	defer span.End()
	env := domain.ChatEnvelope{
		Type:       domain.KindMessage,
		SenderID:   f.SenderID,
		ReceiverID: f.ReceiverID,
		Content:    f.Content,
		ChatRoomID: f.ChatRoomID,
		Timestamp:  time.Now().UTC(),
	}
	if d := g.Send(ctx, f.ReceiverID, env); !d.Delivered {
		g.log.DebugContext(ctx, "gateway - route - receiver offline", "receiver_id", f.ReceiverID, "reason", d.Reason)
	}
	g.Send(ctx, f.SenderID, domain.DeliveryReceipt{
		Type:            domain.KindSent,
		OriginalMessage: env,
	})
	span.SetAttributes(attribute.Int("chat.payload_size", len(f.Content)))
}

// HandleClose drops the connection's registry entry. Idempotent: a second
// close finds no entry and does nothing.
func (g *Gateway) HandleClose(ctx context.Context, conn contracts.Conn) {
	identity, ok := g.reg.Unregister(conn)
	if !ok {
		return
	}
	if err := g.presence.SetOffline(ctx, identity); err != nil {
		g.log.ErrorContext(ctx, "gateway - handle close - presence update failed", "identity", identity, "err", err)
	}
	g.Broadcast(ctx, domain.StatusUpdate{
		Type:   domain.KindStatusUpdate,
		UserID: identity,
		Status: domain.StatusOffline,
	}, identity)
	g.log.InfoContext(ctx, "gateway - handle close - identity unregistered", "identity", identity)
}

// HandleError only records transport faults; the transport fires close on its
// own, which is where cleanup happens.
func (g *Gateway) HandleError(ctx context.Context, err error) {
	g.log.WarnContext(ctx, "gateway - handle error - transport error", "err", err)
}
