package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/souravsouru7/barbez/internal/app/server/handlers"
	"github.com/souravsouru7/barbez/internal/core/domain"
)

type chatServiceStub struct {
	createRoom         func(ctx context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error)
	sendMessage        func(ctx context.Context, senderID, receiverID, content, roomID string) (*domain.Message, error)
	messages           func(ctx context.Context, roomID string) ([]domain.Message, error)
	updateRoomStatus   func(ctx context.Context, roomID string, status domain.RoomStatus) (*domain.ChatRoom, error)
	activeRoomsForShop func(ctx context.Context, shopID string) ([]domain.ChatRoom, error)
}

func (s *chatServiceStub) CreateRoom(ctx context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error) {
	return s.createRoom(ctx, bookingID, userID, shopID)
}

func (s *chatServiceStub) SendMessage(ctx context.Context, senderID, receiverID, content, roomID string) (*domain.Message, error) {
	return s.sendMessage(ctx, senderID, receiverID, content, roomID)
}

func (s *chatServiceStub) Messages(ctx context.Context, roomID string) ([]domain.Message, error) {
	return s.messages(ctx, roomID)
}

func (s *chatServiceStub) UpdateRoomStatus(ctx context.Context, roomID string, status domain.RoomStatus) (*domain.ChatRoom, error) {
	return s.updateRoomStatus(ctx, roomID, status)
}

func (s *chatServiceStub) ActiveRoomsForShop(ctx context.Context, shopID string) ([]domain.ChatRoom, error) {
	return s.activeRoomsForShop(ctx, shopID)
}

type presenceStub struct {
	online map[string]bool
	err    error
}

func (p *presenceStub) SetOnline(context.Context, string, time.Duration) error { return nil }
func (p *presenceStub) SetOffline(context.Context, string) error               { return nil }

func (p *presenceStub) IsOnline(_ context.Context, identity string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.online[identity], nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChatHandler_CreateRoom(t *testing.T) {
	t.Parallel()

	t.Run("it should create a room", func(t *testing.T) {
		room := domain.NewChatRoom("b1", "u1", "shop1")
		h := handlers.NewChatHandler(&chatServiceStub{
			createRoom: func(_ context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error) {
				require.Equal(t, "b1", bookingID)
				require.Equal(t, "u1", userID)
				require.Equal(t, "shop1", shopID)
				return room, nil
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/chat/rooms",
			strings.NewReader(`{"bookingId":"b1","userId":"u1","shopId":"shop1"}`))
		rec := httptest.NewRecorder()
		h.CreateRoom(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		body := decodeBody(t, rec)
		require.Equal(t, "b1", body["bookingId"])
	})

	t.Run("it should return 400 on missing fields", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			createRoom: func(context.Context, string, string, string) (*domain.ChatRoom, error) {
				return nil, domain.ErrMissingField
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/chat/rooms", strings.NewReader(`{"bookingId":"b1"}`))
		rec := httptest.NewRecorder()
		h.CreateRoom(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])
	})

	t.Run("it should return 400 on a broken body", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{}, &presenceStub{})
		req := httptest.NewRequest(http.MethodPost, "/api/chat/rooms", strings.NewReader(`{nope`))
		rec := httptest.NewRecorder()
		h.CreateRoom(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_SendMessage(t *testing.T) {
	t.Parallel()

	roomID := uuid.New()

	t.Run("it should save the message", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			sendMessage: func(_ context.Context, senderID, receiverID, content, rid string) (*domain.Message, error) {
				require.Equal(t, roomID.String(), rid)
				return domain.NewMessage(senderID, receiverID, content, roomID), nil
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/chat/messages", strings.NewReader(
			`{"senderId":"u1","receiverId":"s1","content":"hi","chatRoomId":"`+roomID.String()+`"}`))
		rec := httptest.NewRecorder()
		h.SendMessage(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "hi", body["content"])
		require.Equal(t, "u1", body["senderId"])
	})

	t.Run("it should return 400 for an invalid room id", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			sendMessage: func(context.Context, string, string, string, string) (*domain.Message, error) {
				return nil, domain.ErrInvalidRoomID
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPost, "/api/chat/messages", strings.NewReader(
			`{"senderId":"u1","receiverId":"s1","content":"hi","chatRoomId":"nope"}`))
		rec := httptest.NewRecorder()
		h.SendMessage(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_GetMessages(t *testing.T) {
	t.Parallel()

	roomID := uuid.New()

	t.Run("it should list the history", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			messages: func(_ context.Context, rid string) ([]domain.Message, error) {
				require.Equal(t, roomID.String(), rid)
				return []domain.Message{*domain.NewMessage("u1", "s1", "hi", roomID)}, nil
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodGet, "/api/chat/rooms/"+roomID.String()+"/messages", nil)
		req.SetPathValue("roomId", roomID.String())
		rec := httptest.NewRecorder()
		h.GetMessages(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var msgs []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
		require.Len(t, msgs, 1)
	})

	t.Run("it should return an empty array rather than null", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			messages: func(context.Context, string) ([]domain.Message, error) {
				return nil, nil
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodGet, "/api/chat/rooms/"+roomID.String()+"/messages", nil)
		req.SetPathValue("roomId", roomID.String())
		rec := httptest.NewRecorder()
		h.GetMessages(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestChatHandler_UpdateRoomStatus(t *testing.T) {
	t.Parallel()

	roomID := uuid.New()

	t.Run("it should update the status", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			updateRoomStatus: func(_ context.Context, rid string, status domain.RoomStatus) (*domain.ChatRoom, error) {
				require.Equal(t, domain.RoomClosed, status)
				return &domain.ChatRoom{ID: roomID, Status: status}, nil
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPut, "/api/chat/rooms/"+roomID.String()+"/status",
			strings.NewReader(`{"status":"closed"}`))
		req.SetPathValue("roomId", roomID.String())
		rec := httptest.NewRecorder()
		h.UpdateRoomStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "closed", decodeBody(t, rec)["status"])
	})

	t.Run("it should return 404 for an unknown room", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{
			updateRoomStatus: func(context.Context, string, domain.RoomStatus) (*domain.ChatRoom, error) {
				return nil, domain.ErrRoomNotFound
			},
		}, &presenceStub{})

		req := httptest.NewRequest(http.MethodPut, "/api/chat/rooms/"+roomID.String()+"/status",
			strings.NewReader(`{"status":"closed"}`))
		req.SetPathValue("roomId", roomID.String())
		rec := httptest.NewRecorder()
		h.UpdateRoomStatus(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("it should return 400 when the status is missing", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{}, &presenceStub{})
		req := httptest.NewRequest(http.MethodPut, "/api/chat/rooms/"+roomID.String()+"/status",
			strings.NewReader(`{}`))
		req.SetPathValue("roomId", roomID.String())
		rec := httptest.NewRecorder()
		h.UpdateRoomStatus(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandler_GetActiveRoomsForShop(t *testing.T) {
	t.Parallel()

	h := handlers.NewChatHandler(&chatServiceStub{
		activeRoomsForShop: func(_ context.Context, shopID string) ([]domain.ChatRoom, error) {
			require.Equal(t, "shop1", shopID)
			return []domain.ChatRoom{*domain.NewChatRoom("b1", "u1", "shop1")}, nil
		},
	}, &presenceStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/chat/shops/shop1/active-chats", nil)
	req.SetPathValue("shopId", "shop1")
	rec := httptest.NewRecorder()
	h.GetActiveRoomsForShop(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
}

func TestChatHandler_GetUserStatus(t *testing.T) {
	t.Parallel()

	t.Run("it should report online", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{}, &presenceStub{online: map[string]bool{"u1": true}})
		req := httptest.NewRequest(http.MethodGet, "/api/chat/users/u1/status", nil)
		req.SetPathValue("userId", "u1")
		rec := httptest.NewRecorder()
		h.GetUserStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "u1", body["userId"])
		require.Equal(t, "online", body["status"])
	})

	t.Run("it should report offline for anyone unknown", func(t *testing.T) {
		h := handlers.NewChatHandler(&chatServiceStub{}, &presenceStub{})
		req := httptest.NewRequest(http.MethodGet, "/api/chat/users/u2/status", nil)
		req.SetPathValue("userId", "u2")
		rec := httptest.NewRecorder()
		h.GetUserStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "offline", decodeBody(t, rec)["status"])
	})
}
