package faketransport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/samsamfire/gorobomaster/transport"
)

func TestSendFrameRecordsWrites(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Open("fake0"))

	assert.NoError(t, bus.SendFrame(0x201, []byte{1, 2, 3}))
	assert.NoError(t, bus.SendFrame(0x202, []byte{4, 5}))

	assert.Equal(t, []uint32{0x201, 0x202}, bus.SentIDs())
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5}}, bus.Sent())
}

func TestReadFrameReturnsDeliveredFrames(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Open("fake0"))
	bus.Deliver(0x202, []byte{9, 9})

	id, data, err := bus.ReadFrame()
	assert.NoError(t, err)
	assert.EqualValues(t, 0x202, id)
	assert.Equal(t, []byte{9, 9}, data)
}

func TestReadFrameTimesOutWhenEmpty(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Open("fake0"))
	assert.NoError(t, bus.SetReceiveTimeout(5*time.Millisecond))

	_, _, err := bus.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestFailReadsForcesTimeout(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Open("fake0"))
	bus.FailReads = true
	bus.Deliver(0x201, []byte{1})

	_, _, err := bus.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestOperationsBeforeOpenFail(t *testing.T) {
	bus := New()
	assert.ErrorIs(t, bus.SendFrame(0x1, nil), transport.ErrNotOpen)
	_, _, err := bus.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrNotOpen)
}
