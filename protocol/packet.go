// Package protocol implements the RoboMaster framed packet: the typed
// container the façade builds and the engine fragments, and the
// reassembler that rebuilds one from a stream of inbound CAN frames.
package protocol

import (
	"github.com/samsamfire/gorobomaster/codec"
	"github.com/samsamfire/gorobomaster/internal/crc"
)

const (
	syncByte        = 0x55
	protocolVersion = 0x04
	// headerSize is the length of the portion of the frame covered by the
	// CRC8 header check: sync, length, version.
	headerSize = 3
	// frameOverhead is the number of bytes a framed packet carries beyond
	// its payload: sync(1) + length(1) + version(1) + crc8(1) + type(2) +
	// sequence(2) + crc16(2).
	frameOverhead = 10
)

// Packet is the typed container carried between the façade, the engine's
// queues, and the wire. DeviceID holds the CAN identifier the packet was
// received on or is destined for; it is never part of the framed byte
// layout itself, which is why FromRaw takes it as a separate argument.
type Packet struct {
	DeviceID uint32
	Type     uint16
	Sequence uint16
	Payload  []byte
	IsValid  bool
}

// InvalidPacket is the sentinel returned wherever the protocol calls for
// "no packet" rather than an error — e.g. popping an empty queue.
func InvalidPacket() *Packet {
	return &Packet{IsValid: false}
}

// FromFields builds a packet directly from its logical fields. Construction
// from fields always succeeds.
func FromFields(deviceID uint32, typ uint16, sequence uint16, payload []byte) *Packet {
	return &Packet{
		DeviceID: deviceID,
		Type:     typ,
		Sequence: sequence,
		Payload:  payload,
		IsValid:  true,
	}
}

// FromRaw builds a packet from an already-framed byte sequence (one whose
// CRC8 and CRC16 have already been verified by the caller, typically the
// reassembler). It requires len(framed) > 10 and is invalid otherwise.
func FromRaw(deviceID uint32, framed []byte) *Packet {
	if len(framed) <= frameOverhead {
		return &Packet{DeviceID: deviceID, IsValid: false}
	}
	return &Packet{
		DeviceID: deviceID,
		Type:     codec.ReadUint16(framed, 4),
		Sequence: codec.ReadUint16(framed, 6),
		Payload:  append([]byte(nil), framed[8:len(framed)-2]...),
		IsValid:  true,
	}
}

// Serialize writes the packet in its framed wire layout: sync byte, total
// length, protocol version, CRC8 header check, type, sequence, payload,
// and a trailing CRC16 over everything preceding it.
func (p *Packet) Serialize() []byte {
	l := len(p.Payload) + frameOverhead
	buf := make([]byte, l)
	buf[0] = syncByte
	buf[1] = byte(l)
	buf[2] = protocolVersion
	buf[3] = crc.Checksum8(buf[0:headerSize])
	codec.WriteUint16(buf, 4, p.Type)
	codec.WriteUint16(buf, 6, p.Sequence)
	copy(buf[8:l-2], p.Payload)
	codec.WriteUint16(buf, l-2, crc.Checksum16(buf[0:l-2]))
	return buf
}

// VerifyHeaderCRC reports whether framed[3] matches the CRC8 of framed[0:3).
// framed must have at least headerSize+1 bytes.
func VerifyHeaderCRC(framed []byte) bool {
	return framed[3] == crc.Checksum8(framed[0:headerSize])
}

// VerifyFullCRC reports whether the trailing little-endian CRC16 of a
// framed packet of length l matches the CRC16 computed over framed[0:l-2).
func VerifyFullCRC(framed []byte) bool {
	l := len(framed)
	if l < 2 {
		return false
	}
	want := codec.ReadUint16(framed, l-2)
	return want == crc.Checksum16(framed[0:l-2])
}

// Parse verifies both CRCs of a framed byte sequence and, on success,
// builds a packet from it. This is the inverse of Serialize for callers
// (mainly tests) that don't want to drive the reassembler's streaming
// state machine directly.
func Parse(deviceID uint32, framed []byte) (*Packet, bool) {
	if len(framed) <= frameOverhead {
		return nil, false
	}
	if !VerifyHeaderCRC(framed) {
		return nil, false
	}
	if !VerifyFullCRC(framed) {
		return nil, false
	}
	return FromRaw(deviceID, framed), true
}
