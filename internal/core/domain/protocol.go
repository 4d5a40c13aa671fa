package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	KindSystem       = "system"
	KindIdentity     = "identity"
	KindMessage      = "message"
	KindSent         = "sent"
	KindNewMessage   = "newMessage"
	KindMessageSent  = "messageSent"
	KindError        = "error"
	KindStatusUpdate = "statusUpdate"
	KindNewChatRoom  = "newChatRoom"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// SystemNotice is sent once on connect and after a successful identity
// registration.
type SystemNotice struct {
	Type    string `json:"type"` // "system"
	Content string `json:"content"`
}

// ErrorNotice is the WS-safe error reply for malformed frames and unknown
// kinds. The connection stays open.
type ErrorNotice struct {
	Type    string `json:"type"` // "error"
	Content string `json:"content"`
}

// ChatEnvelope is the routed form of an inbound message frame. ChatRoomID is
// an opaque correlation token forwarded unchanged.
type ChatEnvelope struct {
	Type       string    `json:"type"` // "message"
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	ChatRoomID string    `json:"chatRoomId"`
	Timestamp  time.Time `json:"timestamp"`
}

// DeliveryReceipt is sent ONLY to the sender as the delivery acknowledgment.
type DeliveryReceipt struct {
	Type            string       `json:"type"` // "sent"
	OriginalMessage ChatEnvelope `json:"originalMessage"`
}

// MessagePush wraps a persisted message pushed from the REST bridge, either
// as "newMessage" to the receiver or "messageSent" to the sender.
type MessagePush struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

// RoomPush notifies a shop that a chat room was opened for one of its
// bookings.
type RoomPush struct {
	Type     string    `json:"type"` // "newChatRoom"
	ChatRoom *ChatRoom `json:"chatRoom"`
}

// StatusUpdate is broadcast when a party comes online or goes offline.
type StatusUpdate struct {
	Type   string `json:"type"` // "statusUpdate"
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// Inbound is the decoded form of a client frame: either an IdentityFrame or
// a MessageFrame.
type Inbound interface {
	inbound()
}

// IdentityFrame announces which party owns the connection.
type IdentityFrame struct {
	UserID string `json:"userId"`
}

// MessageFrame carries a chat message between two parties. All four fields
// are required.
type MessageFrame struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	ChatRoomID string `json:"chatRoomId"`
}

func (IdentityFrame) inbound() {}
func (MessageFrame) inbound()  {}

// DecodeInbound parses a raw client frame and validates required fields once
// at the boundary. Unknown kinds return ErrUnknownKind so the caller can
// answer with the matching error envelope.
func DecodeInbound(raw []byte) (Inbound, error) {
	var head struct {
		Kind string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	switch head.Kind {
	case KindIdentity:
		var f IdentityFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if f.UserID == "" {
			return nil, fmt.Errorf("%w: userId", ErrMissingField)
		}
		return f, nil
	case KindMessage:
		var f MessageFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		if f.SenderID == "" || f.ReceiverID == "" || f.Content == "" || f.ChatRoomID == "" {
			return nil, fmt.Errorf("%w: senderId, receiverId, content and chatRoomId", ErrMissingField)
		}
		return f, nil
	default:
		return nil, ErrUnknownKind
	}
}

const ReasonNotConnected = "not_connected"

// Delivery reports the outcome of a single push. A missing or closed
// recipient is a normal outcome, never an error.
type Delivery struct {
	Delivered bool
	Reason    string
}
