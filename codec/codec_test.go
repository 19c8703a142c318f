package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint16RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	WriteUint16(buf, 0, 0xBEEF)
	assert.EqualValues(t, 0xBEEF, ReadUint16(buf, 0))
}

func TestUint16ByteOrder(t *testing.T) {
	buf := make([]byte, 2)
	WriteUint16(buf, 0, 0xDEAD)
	assert.Equal(t, []byte{0xAD, 0xDE}, buf)
}

func TestUint32ByteOrder(t *testing.T) {
	buf := make([]byte, 4)
	WriteUint32(buf, 0, 0xDECAFBAD)
	assert.Equal(t, []byte{0xAD, 0xFB, 0xCA, 0xDE}, buf)
}

func TestInt16RoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	WriteInt16(buf, 0, -1234)
	assert.EqualValues(t, -1234, ReadInt16(buf, 0))
}

func TestInt32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	WriteInt32(buf, 0, -987654321)
	assert.EqualValues(t, -987654321, ReadInt32(buf, 0))
}

func TestUint8RoundTrip(t *testing.T) {
	buf := make([]byte, 1)
	WriteUint8(buf, 0, 0xAB)
	assert.EqualValues(t, 0xAB, ReadUint8(buf, 0))
}

func TestInt8RoundTrip(t *testing.T) {
	buf := make([]byte, 1)
	WriteInt8(buf, 0, -42)
	assert.EqualValues(t, -42, ReadInt8(buf, 0))
}

func TestFloat32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	WriteFloat32(buf, 0, 1337.0)
	assert.InDelta(t, float32(1337.0), ReadFloat32(buf, 0), 0.0001)
}

func TestFloat32KnownEncodings(t *testing.T) {
	cases := []struct {
		value float32
		bytes []byte
	}{
		{1337.0, []byte{0x00, 0x20, 0xA7, 0x44}},
		{3.14, []byte{0xC3, 0xF5, 0x48, 0x40}},
		{0.0, []byte{0x00, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		buf := make([]byte, 4)
		WriteFloat32(buf, 0, c.value)
		assert.Equal(t, c.bytes, buf)
	}
}

func TestWriteAtOffset(t *testing.T) {
	buf := make([]byte, 8)
	WriteUint16(buf, 4, 0x1234)
	assert.EqualValues(t, 0x1234, ReadUint16(buf, 4))
	assert.Zero(t, buf[0])
	assert.Zero(t, buf[1])
}

func TestClipWithinRange(t *testing.T) {
	assert.InDelta(t, 0.5, Clip(0.5, -1, 1), 0.0001)
}

func TestClipBelowMin(t *testing.T) {
	assert.InDelta(t, -1.0, Clip(-10, -1, 1), 0.0001)
}

func TestClipAboveMax(t *testing.T) {
	assert.InDelta(t, 1.0, Clip(10, -1, 1), 0.0001)
}

func TestClipIntBounds(t *testing.T) {
	assert.Equal(t, -1000, ClipInt(-5000, -1000, 1000))
	assert.Equal(t, 1000, ClipInt(5000, -1000, 1000))
	assert.Equal(t, 42, ClipInt(42, -1000, 1000))
}
