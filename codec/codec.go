// Package codec provides the little-endian field access and numeric
// clamping helpers the RoboMaster wire format is built from. Every typed
// command payload and every telemetry sub-record is read and written
// through these functions, centering all encoding on
// encoding/binary.LittleEndian rather than ad-hoc byte shifting.
package codec

import (
	"encoding/binary"
	"math"
)

// The accessors below panic on out-of-range offsets: reading or writing
// past the payload is a programmer error, not a protocol error
// recoverable at runtime — callers (the command façade, the state
// decoder) are expected to size buffers correctly and guard
// variable-length reads with an explicit bounds check beforehand.

func WriteUint8(buf []byte, offset int, v uint8) { buf[offset] = v }
func ReadUint8(buf []byte, offset int) uint8     { return buf[offset] }

func WriteInt8(buf []byte, offset int, v int8) { buf[offset] = byte(v) }
func ReadInt8(buf []byte, offset int) int8      { return int8(buf[offset]) }

func WriteUint16(buf []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:offset+2], v)
}

func ReadUint16(buf []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(buf[offset : offset+2])
}

func WriteInt16(buf []byte, offset int, v int16) {
	binary.LittleEndian.PutUint16(buf[offset:offset+2], uint16(v))
}

func ReadInt16(buf []byte, offset int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[offset : offset+2]))
}

func WriteUint32(buf []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], v)
}

func ReadUint32(buf []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(buf[offset : offset+4])
}

func WriteInt32(buf []byte, offset int, v int32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], uint32(v))
}

func ReadInt32(buf []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

// WriteFloat32 writes v as its IEEE-754 bit pattern, little-endian. The
// conversion always goes through math.Float32bits — never a pointer cast —
// so there is no risk of aliasing the backing array.
func WriteFloat32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
}

func ReadFloat32(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}

// Clip returns value constrained to [min, max].
func Clip(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClipInt is the integer-valued counterpart of Clip, used for wheel RPM
// and gimbal commands which are whole-number protocol fields.
func ClipInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
