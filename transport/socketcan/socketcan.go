// Package socketcan implements transport.Transport directly on top of a
// raw Linux SocketCAN socket. ReadFrame is a direct blocking call rather
// than an async callback, so the engine's own receiver and sender
// goroutines can each drive it synchronously.
package socketcan

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/samsamfire/gorobomaster/transport"
)

// frameSize is the size in bytes of the struct can_frame layout SocketCAN
// reads and writes: id(4) + dlc(1) + pad(1) + res0(1) + res1(1) + data(8).
const frameSize = 16

type rawFrame struct {
	id   uint32
	dlc  uint8
	pad  uint8
	res0 uint8
	res1 uint8
	data [8]uint8
}

// Bus is a transport.Transport backed by AF_CAN/SOCK_RAW/CAN_RAW.
type Bus struct {
	mu sync.Mutex
	f  *os.File
	fd int
}

// New returns an unopened socketcan transport.
func New() *Bus {
	return &Bus{fd: -1}
}

// Open binds to the named interface (e.g. "can0") and applies
// transport.DefaultReceiveTimeout.
func (b *Bus) Open(interfaceName string) error {
	iface, err := net.InterfaceByName(interfaceName)
	if err != nil {
		return fmt.Errorf("socketcan: lookup interface %q: %w", interfaceName, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return fmt.Errorf("socketcan: create socket: %w", err)
	}

	addr := &unix.SockaddrCAN{Ifindex: iface.Index}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return fmt.Errorf("socketcan: bind %q: %w", interfaceName, err)
	}

	b.fd = fd
	b.f = os.NewFile(uintptr(fd), interfaceName)
	return b.SetReceiveTimeout(transport.DefaultReceiveTimeout)
}

// SetReceiveTimeout sets SO_RCVTIMEO on the underlying socket.
func (b *Bus) SetReceiveTimeout(d time.Duration) error {
	if b.fd < 0 {
		return transport.ErrNotOpen
	}
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(b.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("socketcan: set receive timeout: %w", err)
	}
	return nil
}

// SendFrame writes a single CAN frame to the bus.
func (b *Bus) SendFrame(id uint32, data []byte) error {
	if b.f == nil {
		return transport.ErrNotOpen
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	var raw rawFrame
	raw.id = id
	raw.dlc = uint8(len(data))
	copy(raw.data[:], data)

	buf := (*(*[frameSize]byte)(unsafe.Pointer(&raw)))[:]
	n, err := b.f.Write(buf)
	if err != nil {
		return fmt.Errorf("socketcan: write: %w", err)
	}
	if n != frameSize {
		return fmt.Errorf("socketcan: short write (%d of %d bytes)", n, frameSize)
	}
	return nil
}

// ReadFrame blocks for up to the configured receive timeout waiting for
// one frame.
func (b *Bus) ReadFrame() (uint32, []byte, error) {
	if b.f == nil {
		return 0, nil, transport.ErrNotOpen
	}

	buf := make([]byte, frameSize)
	n, err := b.f.Read(buf)
	if errors.Is(err, syscall.EAGAIN) || errors.Is(err, os.ErrDeadlineExceeded) {
		return 0, nil, transport.ErrTimeout
	}
	if err != nil {
		return 0, nil, fmt.Errorf("socketcan: read: %w", err)
	}
	if n != frameSize {
		return 0, nil, fmt.Errorf("socketcan: short read (%d of %d bytes)", n, frameSize)
	}

	raw := (*rawFrame)(unsafe.Pointer(&buf[0]))
	data := append([]byte(nil), raw.data[:raw.dlc]...)
	return raw.id, data, nil
}

// Close releases the socket.
func (b *Bus) Close() error {
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}
