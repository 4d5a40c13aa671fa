package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 512 * 1024
)

// WebSocket wraps a gorilla connection with a cancelable context and the
// read/write plumbing the chat gateway expects.
type WebSocket struct {
	*websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWebSocket(parent context.Context, conn *websocket.Conn) *WebSocket {
	ctx, cancel := context.WithCancel(parent)
	return &WebSocket{Conn: conn, ctx: ctx, cancel: cancel}
}

func (w *WebSocket) WriteMessage(data []byte) error {
	w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.Conn.WriteMessage(websocket.TextMessage, data)
}

// ReadLoop pumps inbound frames to onMsg in arrival order and returns when
// the peer goes away. onErr sees transport-level faults only.
func (w *WebSocket) ReadLoop(onMsg func([]byte), onErr func(error)) {
	defer w.Close()

	w.Conn.SetReadLimit(maxFrameSize)

	for {
		_, data, err := w.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				onErr(err)
			}
			break
		}
		if len(data) > 0 {
			onMsg(data)
		}
	}
}

func (w *WebSocket) Close() {
	w.cancel()
	_ = w.Conn.Close()
}
