package domain

import (
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomActive RoomStatus = "active"
	RoomClosed RoomStatus = "closed"
)

func (s RoomStatus) Valid() bool {
	return s == RoomActive || s == RoomClosed
}

// ChatRoom groups a booking with the customer and the shop it belongs to.
// BookingID, UserID and ShopID are opaque identifiers owned by the booking
// platform; the chat layer never interprets them.
type ChatRoom struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     string     `json:"bookingId"`
	UserID        string     `json:"userId"`
	ShopID        string     `json:"shopId"`
	Status        RoomStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastMessageAt time.Time  `json:"lastMessageAt"`
}

func NewChatRoom(bookingID, userID, shopID string) *ChatRoom {
	now := time.Now().UTC()
	return &ChatRoom{
		ID:            uuid.New(),
		BookingID:     bookingID,
		UserID:        userID,
		ShopID:        shopID,
		Status:        RoomActive,
		CreatedAt:     now,
		LastMessageAt: now,
	}
}

// Message is a persisted chat entry. Sender and receiver are parties of a
// room (a customer or a shop); the chat layer treats both the same way.
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	ChatRoomID uuid.UUID `json:"chatRoomId"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewMessage(senderID, receiverID, content string, roomID uuid.UUID) *Message {
	return &Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		ChatRoomID: roomID,
		Timestamp:  time.Now().UTC(),
	}
}
