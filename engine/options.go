package engine

import (
	"log/slog"
	"time"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// Period overrides the heartbeat period. Defaults to 10ms.
func Period(d time.Duration) Option {
	return func(e *Engine) { e.period = d }
}

// ReceiveTimeout overrides the transport receive timeout applied during
// Init. Defaults to transport.DefaultReceiveTimeout (100ms).
func ReceiveTimeout(d time.Duration) Option {
	return func(e *Engine) { e.receiveTimeout = d }
}

// QueueCapacity overrides the outbound/inbound queue capacity. Defaults
// to queue.DefaultCapacity (10).
func QueueCapacity(n int) Option {
	return func(e *Engine) { e.queueCapacity = n }
}

// Logger sets the structured logger the engine and its goroutines use.
// Defaults to slog.Default().
func Logger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// SubscribedDeviceIDs overrides the set of CAN ids the reassembler
// tracks and the receiver accepts frames for. Defaults to
// DefaultSubscribedDeviceIDs.
func SubscribedDeviceIDs(ids []uint32) Option {
	return func(e *Engine) { e.deviceIDs = append([]uint32(nil), ids...) }
}
