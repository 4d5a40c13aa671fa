package ws

import (
	"context"
	"errors"
	"sync"
)

var (
	errClientClosed = errors.New("client closed")
	errBufferFull   = errors.New("send buffer full")
)

// RuntimeConn is the live connection handle the registry holds. Outbound
// frames go through a buffered channel drained by a single write loop, so
// writes to one socket never interleave and a slow peer cannot stall the
// router.
type RuntimeConn struct {
	ctx    context.Context
	cancel context.CancelFunc
	ws     *WebSocket
	out    chan []byte
	once   sync.Once
}

func NewRuntimeConn(parent context.Context, ws *WebSocket) *RuntimeConn {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeConn{
		ctx:    ctx,
		cancel: cancel,
		ws:     ws,
		out:    make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

// Send enqueues a frame without blocking: delivery is fire-and-forget, so a
// full buffer drops the frame rather than stalling the caller.
func (c *RuntimeConn) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return errClientClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return errClientClosed
	default:
		return errBufferFull
	}
}

func (c *RuntimeConn) Open() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
		return true
	}
}

// Close is idempotent. The out channel is left open for the GC so a racing
// Send can never hit a closed channel.
func (c *RuntimeConn) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeConn) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.WriteMessage(data)
		}
	}
}
