package queue

import (
	"testing"

	"github.com/samsamfire/gorobomaster/protocol"
	"github.com/stretchr/testify/assert"
)

func packetWithSeq(seq uint16) *protocol.Packet {
	return protocol.FromFields(0x201, 0xc309, seq, nil)
}

func TestPushBeyondCapacityDropsOldest(t *testing.T) {
	q := New(DefaultCapacity)
	for i := 0; i < 11; i++ {
		q.Push(packetWithSeq(uint16(i)))
	}
	assert.Equal(t, DefaultCapacity, q.Size())

	first := q.Pop()
	assert.True(t, first.IsValid)
	assert.EqualValues(t, 1, first.Sequence)
}

func TestPopOnEmptyReturnsSentinel(t *testing.T) {
	q := New(DefaultCapacity)
	p := q.Pop()
	assert.False(t, p.IsValid)
	assert.EqualValues(t, 0, p.DeviceID)
}

func TestClearEmptiesQueue(t *testing.T) {
	q := New(DefaultCapacity)
	q.Push(packetWithSeq(1))
	q.Push(packetWithSeq(2))
	q.Clear()
	assert.Equal(t, 0, q.Size())
	assert.True(t, q.Empty())
}

func TestSizeAndEmptyTrackPushesAndPops(t *testing.T) {
	q := New(DefaultCapacity)
	assert.True(t, q.Empty())
	q.Push(packetWithSeq(1))
	assert.False(t, q.Empty())
	assert.Equal(t, 1, q.Size())
	q.Pop()
	assert.True(t, q.Empty())
}
