// Package faketransport is an in-memory transport.Transport double used
// by engine and façade tests: a deterministic, non-kernel bus that lets
// a test deliver inbound frames and inspect outbound ones without a real
// CAN interface.
package faketransport

import (
	"sync"
	"time"

	"github.com/samsamfire/gorobomaster/transport"
)

type frame struct {
	id   uint32
	data []byte
}

// Bus is a fake transport.Transport. Tests push frames for ReadFrame to
// return via Deliver, and inspect frames SendFrame wrote via Sent.
type Bus struct {
	mu      sync.Mutex
	inbox   chan frame
	sent    []frame
	timeout time.Duration

	// FailReads, when true, makes every ReadFrame return ErrTimeout
	// regardless of what's queued, simulating a dead bus.
	FailReads bool
	// FailSends, when true, makes every SendFrame return an error.
	FailSends bool
	opened    bool
}

// New returns an unopened fake bus with a reasonably large inbox.
func New() *Bus {
	return &Bus{
		inbox:   make(chan frame, 256),
		timeout: transport.DefaultReceiveTimeout,
	}
}

func (b *Bus) Open(interfaceName string) error {
	b.opened = true
	return b.SetReceiveTimeout(transport.DefaultReceiveTimeout)
}

func (b *Bus) SetReceiveTimeout(d time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeout = d
	return nil
}

// Deliver enqueues a frame for a future ReadFrame to return.
func (b *Bus) Deliver(id uint32, data []byte) {
	b.inbox <- frame{id: id, data: append([]byte(nil), data...)}
}

func (b *Bus) SendFrame(id uint32, data []byte) error {
	if !b.opened {
		return transport.ErrNotOpen
	}
	if b.FailSends {
		return transport.ErrNotOpen
	}
	b.mu.Lock()
	b.sent = append(b.sent, frame{id: id, data: append([]byte(nil), data...)})
	b.mu.Unlock()
	return nil
}

// Sent returns every frame written via SendFrame, in order.
func (b *Bus) Sent() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.sent))
	for i, f := range b.sent {
		out[i] = f.data
	}
	return out
}

// SentIDs returns the CAN id of every frame written via SendFrame, in
// order.
func (b *Bus) SentIDs() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]uint32, len(b.sent))
	for i, f := range b.sent {
		out[i] = f.id
	}
	return out
}

func (b *Bus) ReadFrame() (uint32, []byte, error) {
	if !b.opened {
		return 0, nil, transport.ErrNotOpen
	}
	if b.FailReads {
		return 0, nil, transport.ErrTimeout
	}
	b.mu.Lock()
	timeout := b.timeout
	b.mu.Unlock()
	select {
	case f := <-b.inbox:
		return f.id, f.data, nil
	case <-time.After(timeout):
		return 0, nil, transport.ErrTimeout
	}
}

func (b *Bus) Close() error {
	b.opened = false
	return nil
}
