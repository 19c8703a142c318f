package chassis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samsamfire/gorobomaster/codec"
	"github.com/samsamfire/gorobomaster/engine"
	"github.com/samsamfire/gorobomaster/protocol"
	"github.com/samsamfire/gorobomaster/telemetry"
	"github.com/samsamfire/gorobomaster/transport/faketransport"
)

func newTestController(t *testing.T) (*Controller, *faketransport.Bus) {
	t.Helper()
	bus := faketransport.New()
	e := engine.New(bus, engine.Period(time.Hour))
	c := New(e)
	require.NoError(t, c.Open("fake0"))
	t.Cleanup(c.Close)
	return c, bus
}

// bootAndHeartbeatFrames is the number of CAN frames on the bus once Open
// has run: the first heartbeat (27 bytes, 4 frames) plus the three boot
// packets (16, 18 and 76 bytes framed: 2 + 3 + 10 frames).
const bootAndHeartbeatFrames = 19

func TestOpenSendsBootSequence(t *testing.T) {
	_, bus := newTestController(t)

	assert.Eventually(t, func() bool {
		return len(bus.Sent()) >= bootAndHeartbeatFrames
	}, 50*time.Millisecond, time.Millisecond)
}

func TestSetWheelRPMFragmentsAndSendsThePacket(t *testing.T) {
	c, bus := newTestController(t)

	assert.Eventually(t, func() bool { return len(bus.Sent()) >= bootAndHeartbeatFrames }, 50*time.Millisecond, time.Millisecond)
	before := len(bus.Sent())

	// Out-of-range values exercise the clip path; the resulting 21-byte
	// framed packet (11-byte payload + 10 overhead) fragments into 3
	// 8-byte CAN frames.
	c.SetWheelRPM(5000, -5000, 0, 1000)

	assert.Eventually(t, func() bool {
		return len(bus.Sent()) >= before+3
	}, 50*time.Millisecond, time.Millisecond)
}

func TestSetVelocityClipRange(t *testing.T) {
	assert.Equal(t, -3.5, codec.Clip(-10, linearVelocityMin, linearVelocityMax))
	assert.Equal(t, 3.5, codec.Clip(10, linearVelocityMin, linearVelocityMax))
	assert.Equal(t, -600.0, codec.Clip(-10000, angularVelocityMin, angularVelocityMax))
}

func TestSetLEDBreathClipsTimingToSixtySeconds(t *testing.T) {
	assert.Equal(t, uint16(60000), clipMillis(2*time.Minute))
	assert.Equal(t, uint16(0), clipMillis(-time.Second))
}

func TestTelemetryCallbackReceivesDecodedState(t *testing.T) {
	bus := faketransport.New()
	e := engine.New(bus, engine.Period(time.Hour), engine.SubscribedDeviceIDs([]uint32{DeviceIDMotionController}))
	c := New(e)
	require.NoError(t, c.Open("fake0"))
	defer c.Close()

	received := make(chan telemetry.State, 1)
	c.SetCallback(func(s telemetry.State) {
		received <- s
	})

	payload := make([]byte, 34)
	copy(payload, []byte{0x20, 0x48, 0x08, 0x00})
	framed := protocol.FromFields(DeviceIDMotionController, 0x0903, 1, payload).Serialize()
	bus.Deliver(DeviceIDMotionController, framed)

	select {
	case s := <-received:
		assert.False(t, s.Velocity.HasData) // payload too short for the velocity sub-record
	case <-time.After(200 * time.Millisecond):
		t.Fatal("callback was never invoked")
	}
}

