package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/souravsouru7/barbez/internal/core/contracts"
	"github.com/souravsouru7/barbez/internal/core/domain"
	"github.com/souravsouru7/barbez/internal/core/services"
	"github.com/souravsouru7/barbez/internal/platform/logger"
)

// ChatHandler bridges the REST chat endpoints to persistence and the
// WebSocket push.
type ChatHandler struct {
	chat     services.IChatService
	presence contracts.PresenceStore
}

func NewChatHandler(chat services.IChatService, presence contracts.PresenceStore) *ChatHandler {
	return &ChatHandler{chat: chat, presence: presence}
}

func (h *ChatHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		BookingID string `json:"bookingId"`
		UserID    string `json:"userId"`
		ShopID    string `json:"shopId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	room, err := h.chat.CreateRoom(r.Context(), req.BookingID, req.UserID, req.ShopID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingField) {
			log.ErrorContext(r.Context(), "chat handler - create room - missing fields")
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		log.ErrorContext(r.Context(), "chat handler - create room - failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		SenderID   string `json:"senderId"`
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
		ChatRoomID string `json:"chatRoomId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	msg, err := h.chat.SendMessage(r.Context(), req.SenderID, req.ReceiverID, req.Content, req.ChatRoomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingField):
			log.ErrorContext(r.Context(), "chat handler - send message - missing fields")
			writeError(w, http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, domain.ErrInvalidRoomID):
			writeError(w, http.StatusBadRequest, "Invalid chat room id")
		default:
			log.ErrorContext(r.Context(), "chat handler - send message - failed", "err", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	roomID := r.PathValue("roomId")
	msgs, err := h.chat.Messages(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRoomID) {
			writeError(w, http.StatusBadRequest, "Invalid chat room id")
			return
		}
		log.ErrorContext(r.Context(), "chat handler - get messages - failed", "room_id", roomID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	roomID := r.PathValue("roomId")
	var req struct {
		Status domain.RoomStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: status")
		return
	}
	room, err := h.chat.UpdateRoomStatus(r.Context(), roomID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, domain.ErrInvalidRoomID):
			writeError(w, http.StatusBadRequest, "Invalid chat room id")
		case errors.Is(err, domain.ErrRoomNotFound):
			writeError(w, http.StatusNotFound, "Chat room not found")
		default:
			log.ErrorContext(r.Context(), "chat handler - update status - failed", "room_id", roomID, "err", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *ChatHandler) GetActiveRoomsForShop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	shopID := r.PathValue("shopId")
	rooms, err := h.chat.ActiveRoomsForShop(r.Context(), shopID)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - active rooms - failed", "shop_id", shopID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rooms == nil {
		rooms = []domain.ChatRoom{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetUserStatus is the poll backstop for the statusUpdate push.
func (h *ChatHandler) GetUserStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := r.PathValue("userId")
	online, err := h.presence.IsOnline(r.Context(), userID)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - user status - presence read failed", "user_id", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "presence unavailable")
		return
	}
	status := domain.StatusOffline
	if online {
		status = domain.StatusOnline
	}
	writeJSON(w, http.StatusOK, map[string]string{"userId": userID, "status": status})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
