package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/souravsouru7/barbez/internal/core/domain"
)

type ChatRoomRepo struct {
	db *sql.DB
}

func NewChatRoomRepo(db *sql.DB) *ChatRoomRepo {
	return &ChatRoomRepo{db: db}
}

/*
	-- Chat rooms
	CREATE TABLE chat_rooms (
		id              UUID PRIMARY KEY,
		booking_id      TEXT NOT NULL,
		user_id         TEXT NOT NULL,
		shop_id         TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'active',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_message_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (booking_id, user_id, shop_id)
	);
*/

func (r *ChatRoomRepo) CreateRoom(ctx context.Context, room *domain.ChatRoom) error {
	exec := GetExecutor(ctx, r.db)
	query := `
		INSERT INTO chat_rooms (id, booking_id, user_id, shop_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, last_message_at`
	return exec.QueryRowContext(ctx, query,
		room.ID, room.BookingID, room.UserID, room.ShopID, room.Status,
	).Scan(&room.CreatedAt, &room.LastMessageAt)
}

func (r *ChatRoomRepo) FindRoom(ctx context.Context, bookingID, userID, shopID string) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{BookingID: bookingID, UserID: userID, ShopID: shopID}
	query := `
		SELECT id, status, created_at, last_message_at
		FROM chat_rooms
		WHERE booking_id = $1 AND user_id = $2 AND shop_id = $3`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, bookingID, userID, shopID).
		Scan(&room.ID, &room.Status, &room.CreatedAt, &room.LastMessageAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *ChatRoomRepo) GetRoom(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{ID: id}
	query := `
		SELECT booking_id, user_id, shop_id, status, created_at, last_message_at
		FROM chat_rooms
		WHERE id = $1`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id).
		Scan(&room.BookingID, &room.UserID, &room.ShopID, &room.Status, &room.CreatedAt, &room.LastMessageAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *ChatRoomRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RoomStatus) (*domain.ChatRoom, error) {
	room := &domain.ChatRoom{ID: id, Status: status}
	query := `
		UPDATE chat_rooms
		SET status = $2
		WHERE id = $1
		RETURNING booking_id, user_id, shop_id, created_at, last_message_at`
	exec := GetExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id, status).
		Scan(&room.BookingID, &room.UserID, &room.ShopID, &room.CreatedAt, &room.LastMessageAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (r *ChatRoomRepo) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx,
		`UPDATE chat_rooms SET last_message_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r *ChatRoomRepo) ActiveRoomsForShop(ctx context.Context, shopID string) ([]domain.ChatRoom, error) {
	query := `
		SELECT id, booking_id, user_id, shop_id, status, created_at, last_message_at
		FROM chat_rooms
		WHERE shop_id = $1 AND status = 'active'
		ORDER BY last_message_at DESC`
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rooms []domain.ChatRoom
	for rows.Next() {
		var room domain.ChatRoom
		if err := rows.Scan(
			&room.ID,
			&room.BookingID,
			&room.UserID,
			&room.ShopID,
			&room.Status,
			&room.CreatedAt,
			&room.LastMessageAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
