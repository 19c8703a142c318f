// Package brutella implements transport.Transport on top of
// github.com/brutella/can, a callback/Subscribe-oriented CAN library.
// Its async Handle callback is bridged into a buffered channel so
// ReadFrame can present a blocking interface, bounded by a context
// deadline derived from the configured receive timeout.
package brutella

import (
	"context"
	"fmt"
	"sync"
	"time"

	sockcan "github.com/brutella/can"

	"github.com/samsamfire/gorobomaster/transport"
)

type rxFrame struct {
	id   uint32
	data []byte
}

// handlerFunc adapts a plain function to brutella's can.Handler interface,
// which only exposes Handle(Frame).
type handlerFunc func(sockcan.Frame)

func (h handlerFunc) Handle(f sockcan.Frame) { h(f) }

// Bus is a transport.Transport backed by a brutella/can bus.
type Bus struct {
	bus     *sockcan.Bus
	frames  chan rxFrame
	mu      sync.Mutex
	timeout time.Duration
}

// New returns an unopened brutella-backed transport.
func New() *Bus {
	return &Bus{
		frames:  make(chan rxFrame, 64),
		timeout: transport.DefaultReceiveTimeout,
	}
}

// Open connects to the named interface and starts the bus's own
// publish/receive goroutine.
func (b *Bus) Open(interfaceName string) error {
	bus, err := sockcan.NewBusForInterfaceWithName(interfaceName)
	if err != nil {
		return fmt.Errorf("brutella: open %q: %w", interfaceName, err)
	}
	b.bus = bus
	bus.Subscribe(handlerFunc(b.onFrame))
	go bus.ConnectAndPublish()
	return b.SetReceiveTimeout(transport.DefaultReceiveTimeout)
}

func (b *Bus) onFrame(f sockcan.Frame) {
	data := append([]byte(nil), f.Data[:f.Length]...)
	select {
	case b.frames <- rxFrame{id: f.ID, data: data}:
		return
	default:
	}
	// Queue is full; drop the oldest buffered frame rather than block the
	// bus library's own dispatch goroutine.
	select {
	case <-b.frames:
	default:
	}
	select {
	case b.frames <- rxFrame{id: f.ID, data: data}:
	default:
	}
}

// SetReceiveTimeout changes how long ReadFrame waits for the next frame.
func (b *Bus) SetReceiveTimeout(d time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeout = d
	return nil
}

// SendFrame publishes one frame to the bus.
func (b *Bus) SendFrame(id uint32, data []byte) error {
	if b.bus == nil {
		return transport.ErrNotOpen
	}
	var raw [8]byte
	copy(raw[:], data)
	return b.bus.Publish(sockcan.Frame{
		ID:     id,
		Length: uint8(len(data)),
		Data:   raw,
	})
}

// ReadFrame blocks until a frame arrives or the configured receive
// timeout elapses.
func (b *Bus) ReadFrame() (uint32, []byte, error) {
	if b.bus == nil {
		return 0, nil, transport.ErrNotOpen
	}
	b.mu.Lock()
	timeout := b.timeout
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case f := <-b.frames:
		return f.id, f.data, nil
	case <-ctx.Done():
		return 0, nil, transport.ErrTimeout
	}
}

// Close disconnects the bus.
func (b *Bus) Close() error {
	if b.bus == nil {
		return nil
	}
	return b.bus.Disconnect()
}
