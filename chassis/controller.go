// Package chassis is the robot-facing command façade: a thin
// "build template → set fields → clip → enqueue" API, taking explicit
// constructor arguments rather than a config struct.
package chassis

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samsamfire/gorobomaster/engine"
	"github.com/samsamfire/gorobomaster/protocol"
	"github.com/samsamfire/gorobomaster/telemetry"
)

// Device ids on the RoboMaster CAN bus, reproduced from the original
// driver's definitions.h. hostDeviceID is the only one this façade ever
// sends from; the others are exposed for documentation and for callers
// wiring a custom engine.SubscribedDeviceIDs set.
const (
	DeviceIDIntelliController uint32 = 0x201
	DeviceIDMotionController  uint32 = 0x202
	DeviceIDGimbal            uint32 = 0x203
	DeviceIDHitDetector1      uint32 = 0x211
	DeviceIDHitDetector2      uint32 = 0x212
	DeviceIDHitDetector3      uint32 = 0x213
	DeviceIDHitDetector4      uint32 = 0x214

	hostDeviceID = DeviceIDIntelliController
)

// Command type codes, one per command family this façade builds.
const (
	typeBoot     uint16 = 0x0309
	typeWorkMode uint16 = 0xc309
	typeChassis  uint16 = 0xc3c9
	typeGimbal   uint16 = 0x0409
	typeBlaster  uint16 = 0x1709
	typeLED      uint16 = 0x1809
)

// Controller is the façade: it exclusively owns the engine and the
// family-scoped sequence counters (drive, LED, gimbal, blaster), and
// forwards decoded telemetry to a user-registered callback.
type Controller struct {
	logger *slog.Logger
	engine *engine.Engine

	seqDrive   atomic.Uint32
	seqLED     atomic.Uint32
	seqGimbal  atomic.Uint32
	seqBlaster atomic.Uint32

	callbackMu sync.RWMutex
	callback   func(telemetry.State)
}

// New wraps an already-constructed engine. The engine is not opened here;
// call Open to start the protocol pipeline and run the boot sequence.
func New(e *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: e,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine.Bind(c.dispatch)
	return c
}

// Open starts the engine on the named CAN interface and enqueues the
// three boot-sequence packets that configure the motion controller to
// emit telemetry.
func (c *Controller) Open(interfaceName string) error {
	if err := c.engine.Init(interfaceName); err != nil {
		return err
	}
	c.bootSequence()
	return nil
}

// Close tears the engine down. Safe to call more than once.
func (c *Controller) Close() {
	c.engine.Stop()
}

// IsRunning reports whether the underlying engine is initialised and has
// not stopped.
func (c *Controller) IsRunning() bool {
	return c.engine.IsRunning()
}

// SetCallback registers the function invoked with each decoded telemetry
// state. It runs on the engine's dispatcher goroutine — the function must
// tolerate being called from a goroutine other than its caller's.
func (c *Controller) SetCallback(fn func(telemetry.State)) {
	c.callbackMu.Lock()
	c.callback = fn
	c.callbackMu.Unlock()
}

// dispatch is bound to the engine as its single packet callback. The
// engine has already filtered to device 0x202, type 0x0903 with a valid
// prefix before calling this, per engine.process; this only has to
// decode and forward.
func (c *Controller) dispatch(p *protocol.Packet) {
	c.callbackMu.RLock()
	cb := c.callback
	c.callbackMu.RUnlock()
	if cb == nil {
		return
	}
	cb(telemetry.Decode(p.Payload))
}

func (c *Controller) push(typ uint16, seq uint16, payload []byte) {
	c.engine.Push(protocol.FromFields(hostDeviceID, typ, seq, payload))
}

func nextSeq(counter *atomic.Uint32) uint16 {
	return uint16(counter.Add(1) - 1)
}
