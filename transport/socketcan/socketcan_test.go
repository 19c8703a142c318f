package socketcan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/samsamfire/gorobomaster/transport"
)

// These tests exercise a real socket against a virtual CAN interface and
// require "vcan0" to be up (e.g. via "ip link add vcan0 type vcan && ip
// link set up vcan0").

func TestOpenSetsDefaultTimeout(t *testing.T) {
	bus := New()
	err := bus.Open("vcan0")
	assert.NoError(t, err)
	defer bus.Close()

	tv, err := unix.GetsockoptTimeval(bus.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO)
	if assert.NoError(t, err) {
		assert.Equal(t, transport.DefaultReceiveTimeout, time.Duration(tv.Nano()))
	}
}

func TestSendReceiveRoundTrip(t *testing.T) {
	tx := New()
	assert.NoError(t, tx.Open("vcan0"))
	defer tx.Close()

	rx := New()
	assert.NoError(t, rx.Open("vcan0"))
	defer rx.Close()

	assert.NoError(t, tx.SendFrame(0x201, []byte{1, 2, 3, 4}))

	id, data, err := rx.ReadFrame()
	assert.NoError(t, err)
	assert.EqualValues(t, 0x201, id)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestReadFrameTimesOutOnSilence(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Open("vcan0"))
	defer bus.Close()
	assert.NoError(t, bus.SetReceiveTimeout(20*time.Millisecond))

	_, _, err := bus.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrTimeout)
}
