package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/souravsouru7/barbez/internal/app/gateway"
	"github.com/souravsouru7/barbez/internal/app/server/ws"
	"github.com/souravsouru7/barbez/internal/platform/logger"
)

type WSHandler struct {
	gateway *gateway.Gateway
}

func NewWSHandler(gw *gateway.Gateway) *WSHandler {
	return &WSHandler{gateway: gw}
}

// Handler upgrades the request and runs the connection's read loop until the
// peer goes away. Identity is announced in-band via an identity frame, so the
// endpoint itself carries no auth.
func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	// The connection outlives the HTTP request.
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade - ws upgrade failed", "err", err)
		return
	}

	socket := ws.NewWebSocket(sessionCtx, conn)
	client := ws.NewRuntimeConn(sessionCtx, socket)
	defer client.Close()
	defer s.gateway.HandleClose(sessionCtx, client)

	s.gateway.Accept(sessionCtx, client)
	log.InfoContext(r.Context(), "ws handler - ws connection established", "remote_addr", r.RemoteAddr)

	// Frames are handled in arrival order; delivery itself never blocks the
	// loop because writes go through each connection's buffered out channel.
	socket.ReadLoop(
		func(data []byte) {
			s.gateway.HandleFrame(sessionCtx, client, data)
		},
		func(err error) {
			s.gateway.HandleError(sessionCtx, err)
		},
	)
}
