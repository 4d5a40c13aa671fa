package contracts

import "context"

// Conn is the minimal surface the chat core needs from one live bidirectional
// connection. The transport layer owns the byte-level lifecycle; the core
// only holds a reference and checks liveness at send time.
type Conn interface {
	// Send enqueues a frame for the connection's write loop.
	Send(ctx context.Context, data []byte) error
	// Open reports whether the connection can still accept writes.
	Open() bool
	Close()
}
