package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/souravsouru7/barbez/internal/app/gateway"
	"github.com/souravsouru7/barbez/internal/app/server/handlers"
	"github.com/souravsouru7/barbez/internal/core/contracts"
	"github.com/souravsouru7/barbez/internal/core/services"
	"github.com/souravsouru7/barbez/pkg/middleware"
)

type Server struct {
	mux         *http.ServeMux
	log         *slog.Logger
	name        string
	addr        string
	chatHandler *handlers.ChatHandler
	wsHandler   *handlers.WSHandler
	tokenSvc    *services.TokenService
	httpSrv     *http.Server
}

func NewServer(
	log *slog.Logger,
	name string,
	addr string,
	chatSvc services.IChatService,
	presence contracts.PresenceStore,
	tokenSvc *services.TokenService,
	gw *gateway.Gateway,
) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		log:         log,
		name:        name,
		addr:        addr,
		chatHandler: handlers.NewChatHandler(chatSvc, presence),
		wsHandler:   handlers.NewWSHandler(gw),
		tokenSvc:    tokenSvc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.tokenSvc)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// REST chat surface (persist-then-push bridge)
	s.mux.Handle("POST /api/chat/rooms", protect(s.chatHandler.CreateRoom))
	s.mux.Handle("POST /api/chat/messages", protect(s.chatHandler.SendMessage))
	s.mux.Handle("GET /api/chat/rooms/{roomId}/messages", protect(s.chatHandler.GetMessages))
	s.mux.Handle("PUT /api/chat/rooms/{roomId}/status", protect(s.chatHandler.UpdateRoomStatus))
	s.mux.Handle("GET /api/chat/shops/{shopId}/active-chats", protect(s.chatHandler.GetActiveRoomsForShop))
	s.mux.Handle("GET /api/chat/users/{userId}/status", protect(s.chatHandler.GetUserStatus))

	// The chat socket itself is unauthenticated; identity arrives in-band.
	s.mux.HandleFunc("/ws", s.wsHandler.Handler)
}

func (s *Server) Start(ctx context.Context) error {
	handler := middleware.TracerMiddleware(s.name)(
		middleware.RequestLogger(s.log)(s.mux),
	)
	s.httpSrv = &http.Server{
		Addr:        s.addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: it would sever long-lived WebSocket sessions.
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()
	s.log.Info("server starting", "addr", s.addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
