package brutella

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	sockcan "github.com/brutella/can"

	"github.com/samsamfire/gorobomaster/transport"
)

var _ transport.Transport = (*Bus)(nil)

func TestOnFrameDropsOldestWhenFullRatherThanBlock(t *testing.T) {
	b := &Bus{frames: make(chan rxFrame, 2)}

	b.onFrame(sockcan.Frame{ID: 1, Length: 1, Data: [8]byte{0x01}})
	b.onFrame(sockcan.Frame{ID: 2, Length: 1, Data: [8]byte{0x02}})
	b.onFrame(sockcan.Frame{ID: 3, Length: 1, Data: [8]byte{0x03}})

	first := <-b.frames
	second := <-b.frames
	assert.EqualValues(t, 2, first.id)
	assert.EqualValues(t, 3, second.id)
}

func TestOnFrameCopiesDataToExactLength(t *testing.T) {
	b := &Bus{frames: make(chan rxFrame, 1)}

	b.onFrame(sockcan.Frame{ID: 0x201, Length: 3, Data: [8]byte{1, 2, 3, 0xff, 0xff, 0xff, 0xff, 0xff}})

	f := <-b.frames
	assert.Equal(t, []byte{1, 2, 3}, f.data)
}

func TestSendFrameBeforeOpenReturnsErrNotOpen(t *testing.T) {
	b := New()
	err := b.SendFrame(0x201, []byte{1, 2, 3})
	assert.ErrorIs(t, err, transport.ErrNotOpen)
}

func TestReadFrameBeforeOpenReturnsErrNotOpen(t *testing.T) {
	b := New()
	_, _, err := b.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrNotOpen)
}

func TestReadFrameTimesOutWhenNothingQueued(t *testing.T) {
	b := New()
	b.bus = &sockcan.Bus{}
	assert.NoError(t, b.SetReceiveTimeout(10*time.Millisecond))

	_, _, err := b.ReadFrame()
	assert.ErrorIs(t, err, transport.ErrTimeout)
}

func TestReadFrameReturnsQueuedFrame(t *testing.T) {
	b := New()
	b.bus = &sockcan.Bus{}
	b.frames <- rxFrame{id: 0x201, data: []byte{1, 2, 3}}

	id, data, err := b.ReadFrame()
	assert.NoError(t, err)
	assert.EqualValues(t, 0x201, id)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
