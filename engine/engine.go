// Package engine implements the RoboMaster protocol engine: the three
// cooperating goroutines (receiver, sender, dispatcher) that own the
// transport and the two bounded queues connecting them. Each goroutine
// is started from Init and torn down together from Stop via a shared
// context.Context and a sync.WaitGroup (cancel, then join).
package engine

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samsamfire/gorobomaster/protocol"
	"github.com/samsamfire/gorobomaster/queue"
	"github.com/samsamfire/gorobomaster/transport"
)

// Device ids and type codes the engine itself deals in. Command-specific
// types (chassis control, gimbal, LED, …) belong to the façade, which
// only ever calls Push.
const (
	hostDeviceID      uint32 = 0x201
	heartbeatType     uint16 = 0xc309
	telemetryDeviceID uint32 = 0x202
	telemetryType     uint16 = 0x0903
)

// telemetryPrefix is the payload prefix that marks a 0x0903 packet as the
// motion controller's telemetry record.
var telemetryPrefix = []byte{0x20, 0x48, 0x08, 0x00}

// DefaultSubscribedDeviceIDs is the set of peer ids the engine reassembles
// frames for: the motion controller, the gimbal, and the four hit
// detectors.
var DefaultSubscribedDeviceIDs = []uint32{0x202, 0x203, 0x211, 0x212, 0x213, 0x214}

// defaultHeartbeatPeriod is the keep-alive interval the motion controller
// requires to keep accepting commands.
const defaultHeartbeatPeriod = 10 * time.Millisecond

// maxConsecutiveErrors is the number of back-to-back transient errors a
// worker tolerates before declaring the bus dead.
const maxConsecutiveErrors = 3

// heartbeatPayload is the fixed 17-byte template sent as the keep-alive
// packet's payload, captured from the vendor controller. Like the
// boot-sequence templates the façade owns, this is an opaque protocol
// constant; it is never reinterpreted here.
var heartbeatPayload = [17]byte{
	0x00, 0x3f, 0x60, 0x00, 0x04, 0x20, 0x00, 0x01,
	0x00, 0x40, 0x00, 0x02, 0x10, 0x00, 0x03, 0x00, 0x00,
}

// Engine is the protocol engine: it owns the transport, the outbound and
// inbound queues, and the three worker goroutines for its lifetime.
//
// A receive timeout (transport.ErrTimeout) counts toward the receiver's
// consecutive-error limit like any other read error, so a bus that stays
// silent for three receive timeouts in a row stops the engine.
type Engine struct {
	logger *slog.Logger

	transport      transport.Transport
	period         time.Duration
	receiveTimeout time.Duration
	queueCapacity  int
	deviceIDs      []uint32

	reassembler *protocol.Reassembler
	outbound    *queue.Queue
	inbound     *queue.Queue

	outboundWake chan struct{}
	inboundWake  chan struct{}

	callbackMu sync.RWMutex
	callback   func(*protocol.Packet)

	initialised atomic.Bool
	stopped     atomic.Bool
	stopOnce    sync.Once

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds an Engine bound to transport t. The engine does not open t;
// that happens in Init.
func New(t transport.Transport, opts ...Option) *Engine {
	e := &Engine{
		transport:      t,
		period:         defaultHeartbeatPeriod,
		receiveTimeout: transport.DefaultReceiveTimeout,
		queueCapacity:  queue.DefaultCapacity,
		deviceIDs:      append([]uint32(nil), DefaultSubscribedDeviceIDs...),
		logger:         slog.Default(),
		outboundWake:   make(chan struct{}, 1),
		inboundWake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reassembler = protocol.NewReassembler(e.deviceIDs)
	e.outbound = queue.New(e.queueCapacity)
	e.inbound = queue.New(e.queueCapacity)
	return e
}

// Init opens the transport, applies the receive timeout, and starts the
// receiver, sender, and dispatcher goroutines. Calling Init twice returns
// ErrDoubleInit without changing any state.
func (e *Engine) Init(interfaceName string) error {
	if !e.initialised.CompareAndSwap(false, true) {
		return ErrDoubleInit
	}

	if err := e.transport.Open(interfaceName); err != nil {
		e.initialised.Store(false)
		return err
	}
	if err := e.transport.SetReceiveTimeout(e.receiveTimeout); err != nil {
		e.initialised.Store(false)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.wg.Add(3)
	go func() {
		defer e.wg.Done()
		e.receiverLoop(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.senderLoop(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.dispatcherLoop(ctx)
	}()

	return nil
}

// Stop tears the engine down: it is idempotent and safe to call from a
// destructor-equivalent (e.g. a deferred Close in the façade).
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.stopped.Store(true)
		if e.cancel != nil {
			e.cancel()
		}
		e.wg.Wait()
		e.transport.Close()
	})
}

// IsRunning reports whether the engine has been initialised and has not
// since stopped.
func (e *Engine) IsRunning() bool {
	return e.initialised.Load() && !e.stopped.Load()
}

// Push enqueues packet for transmission and wakes the sender if it is
// waiting. Packets pushed after the engine stops are silently dropped by
// the bounded queue's own drop-oldest policy; Push never blocks.
func (e *Engine) Push(p *protocol.Packet) {
	e.outbound.Push(p)
	e.wake(e.outboundWake)
}

// Bind sets the single dispatch callback invoked for each validated
// telemetry packet. It may be called at any time; the dispatcher always
// reads the most recently bound callback.
func (e *Engine) Bind(fn func(*protocol.Packet)) {
	e.callbackMu.Lock()
	e.callback = fn
	e.callbackMu.Unlock()
}

func (e *Engine) wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// fail declares the bus dead: it flips stopped and cancels the shared
// context so every worker observes it at its next loop head or wait, then
// logs once. It does not call Stop itself — the owner is still
// responsible for joining the workers and closing the transport.
func (e *Engine) fail(reason string) {
	if e.stopped.CompareAndSwap(false, true) {
		e.logger.Error("engine stopping: too many consecutive errors", "reason", reason)
	}
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) receiverLoop(ctx context.Context) {
	errCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		id, data, err := e.transport.ReadFrame()
		if err != nil {
			errCount++
			if errCount >= maxConsecutiveErrors {
				e.fail("receiver: " + err.Error())
				return
			}
			continue
		}
		errCount = 0

		if !e.reassembler.Subscribed(id) {
			continue
		}
		for _, p := range e.reassembler.Feed(id, data) {
			e.inbound.Push(p)
			e.wake(e.inboundWake)
		}
	}
}

func (e *Engine) senderLoop(ctx context.Context) {
	errCount := 0
	nextHeartbeat := time.Now()
	var heartbeatSeq uint16

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !time.Now().Before(nextHeartbeat) {
			pkt := protocol.FromFields(hostDeviceID, heartbeatType, heartbeatSeq, heartbeatPayload[:])
			heartbeatSeq++
			if err := e.sendPacket(pkt); err != nil {
				errCount++
				if errCount >= maxConsecutiveErrors {
					e.fail("sender: " + err.Error())
					return
				}
				continue
			}
			errCount = 0
			nextHeartbeat = nextHeartbeat.Add(e.period)
			continue
		}

		if !e.outbound.Empty() {
			p := e.outbound.Pop()
			if p.IsValid {
				if err := e.sendPacket(p); err != nil {
					errCount++
					if errCount >= maxConsecutiveErrors {
						e.fail("sender: " + err.Error())
						return
					}
					continue
				}
				errCount = 0
			}
			continue
		}

		wait := time.Until(nextHeartbeat)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-e.outboundWake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// sendPacket fragments a packet's framed bytes into successive 8-byte CAN
// frames and writes each in order.
func (e *Engine) sendPacket(p *protocol.Packet) error {
	framed := p.Serialize()
	for offset := 0; offset < len(framed); offset += 8 {
		end := offset + 8
		if end > len(framed) {
			end = len(framed)
		}
		if err := e.transport.SendFrame(p.DeviceID, framed[offset:end]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) dispatcherLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !e.inbound.Empty() {
			p := e.inbound.Pop()
			if p.IsValid {
				e.process(p)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-e.inboundWake:
		}
	}
}

// process delivers telemetry packets to the registered callback. A
// packet the callback isn't bound for, or that doesn't match the known
// telemetry signature, is dropped — other types are routable by future
// extension but currently ignored.
func (e *Engine) process(p *protocol.Packet) {
	if p.DeviceID != telemetryDeviceID || p.Type != telemetryType {
		return
	}
	if len(p.Payload) < len(telemetryPrefix) || !bytes.Equal(p.Payload[:len(telemetryPrefix)], telemetryPrefix) {
		return
	}

	e.callbackMu.RLock()
	cb := e.callback
	e.callbackMu.RUnlock()
	if cb == nil {
		return
	}
	cb(p)
}
