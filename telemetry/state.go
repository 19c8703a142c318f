// Package telemetry decodes the motion controller's 0x0903 telemetry
// packet into a structured State, reading each sub-record from the raw
// payload at its fixed byte offset.
package telemetry

import "github.com/samsamfire/gorobomaster/codec"

// telemetryPrefix identifies a 0x0903 payload as the motion controller's
// telemetry record.
var telemetryPrefix = []byte{0x20, 0x48, 0x08, 0x00}

// Velocity holds the chassis' global- and body-frame velocity estimates,
// decoded from payload offset 27.
type Velocity struct {
	HasData bool
	VGX, VGY, VGZ float32
	VBX, VBY, VBZ float32
}

// Battery holds the chassis battery telemetry, decoded from payload
// offset 51.
type Battery struct {
	HasData     bool
	ADCValue    uint16
	Temperature uint16
	Current     int32
	Percent     uint8
	Recv        uint8
}

// ESC holds the per-wheel electronic speed controller telemetry, decoded
// from payload offset 61. Index 0..3 is front-right, front-left,
// rear-left, rear-right, matching SetWheelRPM's argument order.
type ESC struct {
	HasData   bool
	Speed     [4]int16
	Angle     [4]int16
	TimeStamp [4]uint32
	State     [4]uint8
}

// IMU holds raw accelerometer and gyroscope readings, decoded from
// payload offset 97.
type IMU struct {
	HasData           bool
	AccX, AccY, AccZ  float32
	GyroX, GyroY, GyroZ float32
}

// Attitude holds the fused yaw/pitch/roll estimate, decoded from payload
// offset 121.
type Attitude struct {
	HasData          bool
	Yaw, Pitch, Roll float32
}

// Position holds the dead-reckoned chassis position, decoded from
// payload offset 133.
type Position struct {
	HasData bool
	X, Y, Z float32
}

// State is the fully decoded 0x0903 telemetry packet.
type State struct {
	Velocity Velocity
	Battery  Battery
	ESC      ESC
	IMU      IMU
	Attitude Attitude
	Position Position

	raw []byte
}

// Raw returns the original telemetry payload bytes, for callers decoding
// sub-records this package doesn't interpret yet.
func (s State) Raw() []byte { return s.raw }

// IsTelemetryPayload reports whether payload carries the 0x0903 prefix a
// motion-controller telemetry packet is expected to have.
func IsTelemetryPayload(payload []byte) bool {
	if len(payload) < len(telemetryPrefix) {
		return false
	}
	for i, b := range telemetryPrefix {
		if payload[i] != b {
			return false
		}
	}
	return true
}

// Decode extracts every sub-record from a 0x0903 payload at their fixed
// offsets. It does not itself check the telemetry prefix — callers that
// haven't already verified it should call IsTelemetryPayload first, as
// the engine's dispatcher does before this package is ever reached.
func Decode(payload []byte) State {
	return State{
		Velocity: decodeVelocity(payload, 27),
		Battery:  decodeBattery(payload, 51),
		ESC:      decodeESC(payload, 61),
		IMU:      decodeIMU(payload, 97),
		Attitude: decodeAttitude(payload, 121),
		Position: decodePosition(payload, 133),
		raw:      append([]byte(nil), payload...),
	}
}

func fits(payload []byte, offset, size int) bool {
	return offset+size <= len(payload)
}

func decodeVelocity(payload []byte, offset int) Velocity {
	var v Velocity
	if !fits(payload, offset, 24) {
		return v
	}
	v.VGX = codec.ReadFloat32(payload, offset)
	v.VGY = codec.ReadFloat32(payload, offset+4)
	v.VGZ = codec.ReadFloat32(payload, offset+8)
	v.VBX = codec.ReadFloat32(payload, offset+12)
	v.VBY = codec.ReadFloat32(payload, offset+16)
	v.VBZ = codec.ReadFloat32(payload, offset+20)
	v.HasData = true
	return v
}

func decodeBattery(payload []byte, offset int) Battery {
	var b Battery
	if !fits(payload, offset, 10) {
		return b
	}
	b.ADCValue = codec.ReadUint16(payload, offset)
	b.Temperature = codec.ReadUint16(payload, offset+2)
	b.Current = codec.ReadInt32(payload, offset+4)
	b.Percent = codec.ReadUint8(payload, offset+8)
	b.Recv = codec.ReadUint8(payload, offset+9)
	b.HasData = true
	return b
}

func decodeESC(payload []byte, offset int) ESC {
	var e ESC
	if !fits(payload, offset, 36) {
		return e
	}
	for i := 0; i < 4; i++ {
		e.Speed[i] = codec.ReadInt16(payload, offset+2*i)
		e.Angle[i] = codec.ReadInt16(payload, offset+8+2*i)
		e.TimeStamp[i] = codec.ReadUint32(payload, offset+16+4*i)
		e.State[i] = codec.ReadUint8(payload, offset+32+i)
	}
	e.HasData = true
	return e
}

func decodeIMU(payload []byte, offset int) IMU {
	var i IMU
	if !fits(payload, offset, 24) {
		return i
	}
	i.AccX = codec.ReadFloat32(payload, offset)
	i.AccY = codec.ReadFloat32(payload, offset+4)
	i.AccZ = codec.ReadFloat32(payload, offset+8)
	i.GyroX = codec.ReadFloat32(payload, offset+12)
	i.GyroY = codec.ReadFloat32(payload, offset+16)
	i.GyroZ = codec.ReadFloat32(payload, offset+20)
	i.HasData = true
	return i
}

func decodeAttitude(payload []byte, offset int) Attitude {
	var a Attitude
	if !fits(payload, offset, 12) {
		return a
	}
	a.Yaw = codec.ReadFloat32(payload, offset)
	a.Pitch = codec.ReadFloat32(payload, offset+4)
	a.Roll = codec.ReadFloat32(payload, offset+8)
	a.HasData = true
	return a
}

func decodePosition(payload []byte, offset int) Position {
	var p Position
	if !fits(payload, offset, 12) {
		return p
	}
	p.X = codec.ReadFloat32(payload, offset)
	p.Y = codec.ReadFloat32(payload, offset+4)
	p.Z = codec.ReadFloat32(payload, offset+8)
	p.HasData = true
	return p
}
