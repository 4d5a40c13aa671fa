package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/souravsouru7/barbez/internal/core/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

/*
	-- Messages
	CREATE TABLE messages (
		id           UUID PRIMARY KEY,
		chat_room_id UUID NOT NULL REFERENCES chat_rooms(id),
		sender_id    TEXT NOT NULL,
		receiver_id  TEXT NOT NULL,
		content      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX messages_room_created_idx ON messages (chat_room_id, created_at);
*/

func (r *MessageRepo) SaveMessage(ctx context.Context, msg *domain.Message) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO messages (id, chat_room_id, sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID,
		msg.ChatRoomID,
		msg.SenderID,
		msg.ReceiverID,
		msg.Content,
		msg.Timestamp,
	)
	return err
}

func (r *MessageRepo) ListMessages(ctx context.Context, roomID uuid.UUID) ([]domain.Message, error) {
	exec := GetExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, chat_room_id, sender_id, receiver_id, content, created_at
		FROM messages
		WHERE chat_room_id = $1
		ORDER BY created_at ASC`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID,
			&m.ChatRoomID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Content,
			&m.Timestamp,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
