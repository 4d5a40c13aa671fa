package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatRoomRepository handles the durable room lifecycle.
type ChatRoomRepository interface {
	CreateRoom(ctx context.Context, room *ChatRoom) error
	// FindRoom returns ErrRoomNotFound when no room exists for the triple.
	FindRoom(ctx context.Context, bookingID, userID, shopID string) (*ChatRoom, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*ChatRoom, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status RoomStatus) (*ChatRoom, error)
	// TouchLastMessage bumps the room's last activity timestamp.
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
	// ActiveRoomsForShop lists active rooms, most recently active first.
	ActiveRoomsForShop(ctx context.Context, shopID string) ([]ChatRoom, error)
}

// MessageRepository handles durable message history. The gateway itself never
// stores messages; persistence happens on the REST bridge before the push.
type MessageRepository interface {
	SaveMessage(ctx context.Context, msg *Message) error
	// ListMessages returns the room's messages ordered by timestamp.
	ListMessages(ctx context.Context, roomID uuid.UUID) ([]Message, error)
}
