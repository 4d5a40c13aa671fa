package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/souravsouru7/barbez/internal/core/contracts"
	"github.com/souravsouru7/barbez/internal/core/domain"
)

var tracer = otel.Tracer("chat-service")

type IChatService interface {
	// CreateRoom is idempotent per (booking, user, shop) triple and notifies
	// the shop over its live connection when one exists.
	CreateRoom(ctx context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error)
	// SendMessage persists first, then pushes to both parties. A failed push
	// never rolls back persistence; the history endpoint reconciles misses.
	SendMessage(ctx context.Context, senderID, receiverID, content, roomID string) (*domain.Message, error)
	Messages(ctx context.Context, roomID string) ([]domain.Message, error)
	UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus) (*domain.ChatRoom, error)
	ActiveRoomsForShop(ctx context.Context, shopID string) ([]domain.ChatRoom, error)
}

type ChatService struct {
	log       *slog.Logger
	rooms     domain.ChatRoomRepository
	messages  domain.MessageRepository
	pusher    contracts.Pusher
	txManager *TxManager
}

func NewChatService(
	log *slog.Logger,
	rooms domain.ChatRoomRepository,
	messages domain.MessageRepository,
	pusher contracts.Pusher,
	txManager *TxManager,
) *ChatService {
	return &ChatService{
		log:       log,
		rooms:     rooms,
		messages:  messages,
		pusher:    pusher,
		txManager: txManager,
	}
}

func (s *ChatService) CreateRoom(ctx context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "ChatService.CreateRoom", trace.WithAttributes(
		attribute.String("chat.booking_id", bookingID),
		attribute.String("chat.shop_id", shopID),
	))
	defer span.End()
	if bookingID == "" || userID == "" || shopID == "" {
		return nil, domain.ErrMissingField
	}
	existing, err := s.rooms.FindRoom(ctx, bookingID, userID, shopID)
	if err == nil {
		s.log.InfoContext(ctx, "chat - create room - existing room reused", "room_id", existing.ID)
		return existing, nil
	}
	room := domain.NewChatRoom(bookingID, userID, shopID)
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.rooms.CreateRoom(txCtx, room)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create room failed")
		s.log.ErrorContext(ctx, "chat - create room - create failed", "booking_id", bookingID, "err", err)
		return nil, fmt.Errorf("create chat room: %w", err)
	}
	s.pusher.Send(ctx, shopID, domain.RoomPush{
		Type:     domain.KindNewChatRoom,
		ChatRoom: room,
	})
	s.log.InfoContext(ctx, "chat - create room - room created", "room_id", room.ID, "booking_id", bookingID)
	return room, nil
}

func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID, content, roomID string) (*domain.Message, error) {
	ctx, span := tracer.Start(ctx, "ChatService.SendMessage", trace.WithAttributes(
		attribute.String("chat.sender_id", senderID),
		attribute.String("chat.receiver_id", receiverID),
		attribute.String("chat.room_id", roomID),
	))
	defer span.End()
	if senderID == "" || receiverID == "" || content == "" || roomID == "" {
		return nil, domain.ErrMissingField
	}
	rid, err := uuid.Parse(roomID)
	if err != nil {
		return nil, domain.ErrInvalidRoomID
	}
	msg := domain.NewMessage(senderID, receiverID, content, rid)
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.messages.SaveMessage(txCtx, msg); err != nil {
			return err
		}
		return s.rooms.TouchLastMessage(txCtx, rid, msg.Timestamp)
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save message failed")
		s.log.ErrorContext(ctx, "chat - send message - save failed", "room_id", roomID, "err", err)
		return nil, fmt.Errorf("save message: %w", err)
	}
	// Persist-then-push: from here on every outcome is a success.
	if d := s.pusher.Send(ctx, receiverID, domain.MessagePush{
		Type:    domain.KindNewMessage,
		Message: msg,
	}); !d.Delivered {
		s.log.DebugContext(ctx, "chat - send message - receiver offline", "receiver_id", receiverID, "reason", d.Reason)
	}
	s.pusher.Send(ctx, senderID, domain.MessagePush{
		Type:    domain.KindMessageSent,
		Message: msg,
	})
	s.log.InfoContext(ctx, "chat - send message - message saved", "message_id", msg.ID, "room_id", roomID)
	return msg, nil
}

func (s *ChatService) Messages(ctx context.Context, roomID string) ([]domain.Message, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Messages", trace.WithAttributes(
		attribute.String("chat.room_id", roomID),
	))
	defer span.End()
	rid, err := uuid.Parse(roomID)
	if err != nil {
		return nil, domain.ErrInvalidRoomID
	}
	msgs, err := s.messages.ListMessages(ctx, rid)
	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - messages - list failed", "room_id", roomID, "err", err)
		return nil, fmt.Errorf("list messages: %w", err)
	}
	span.SetAttributes(attribute.Int("chat.message_count", len(msgs)))
	return msgs, nil
}

func (s *ChatService) UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus) (*domain.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "ChatService.UpdateRoomStatus", trace.WithAttributes(
		attribute.String("chat.room_id", roomID),
		attribute.String("chat.status", string(status)),
	))
	defer span.End()
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	rid, err := uuid.Parse(roomID)
	if err != nil {
		return nil, domain.ErrInvalidRoomID
	}
	var room *domain.ChatRoom
	if err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		room, txErr = s.rooms.UpdateStatus(txCtx, rid, status)
		return txErr
	}); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - update room status - update failed", "room_id", roomID, "err", err)
		return nil, fmt.Errorf("update room status: %w", err)
	}
	s.log.InfoContext(ctx, "chat - update room status - status updated", "room_id", roomID, "status", status)
	return room, nil
}

func (s *ChatService) ActiveRoomsForShop(ctx context.Context, shopID string) ([]domain.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "ChatService.ActiveRoomsForShop", trace.WithAttributes(
		attribute.String("chat.shop_id", shopID),
	))
	defer span.End()
	if shopID == "" {
		return nil, domain.ErrMissingField
	}
	rooms, err := s.rooms.ActiveRoomsForShop(ctx, shopID)
	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "chat - active rooms - list failed", "shop_id", shopID, "err", err)
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	span.SetAttributes(attribute.Int("chat.room_count", len(rooms)))
	return rooms, nil
}
