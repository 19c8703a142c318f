package chassis

import "github.com/samsamfire/gorobomaster/codec"

// Clip bounds for each command family's numeric arguments.
const (
	wheelRPMMin, wheelRPMMax                = -1000.0, 1000.0
	linearVelocityMin, linearVelocityMax    = -3.5, 3.5
	angularVelocityMin, angularVelocityMax  = -600.0, 600.0
	gimbalMin, gimbalMax                    = -1024.0, 1024.0
)

// SetWorkMode enables or disables the chassis work mode.
func (c *Controller) SetWorkMode(enabled bool) {
	payload := []byte{0x40, 0x3f, 0x19, 0x00}
	var v uint8
	if enabled {
		v = 1
	}
	codec.WriteUint8(payload, 3, v)
	c.push(typeWorkMode, 0, payload)
}

// chassisTemplate is the shared 11-byte payload shape SetBrake and
// SetWheelRPM build on.
func chassisTemplate() []byte {
	return []byte{0x40, 0x3f, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// SetBrake stops the chassis with zero drive command.
func (c *Controller) SetBrake() {
	c.push(typeChassis, nextSeq(&c.seqDrive), chassisTemplate())
}

// Stop is a convenience combining zero velocity with a brake command.
func (c *Controller) Stop() {
	c.SetVelocity(0, 0, 0)
	c.SetBrake()
}

// SetWheelRPM drives each wheel independently, in rpm, clipped to
// [-1000, 1000]. Order is front-right, front-left, rear-left, rear-right.
func (c *Controller) SetWheelRPM(fr, fl, rl, rr int) {
	payload := chassisTemplate()
	w1 := codec.ClipInt(fr, wheelRPMMin, wheelRPMMax)
	w2 := codec.ClipInt(fl, wheelRPMMin, wheelRPMMax)
	w3 := codec.ClipInt(rl, wheelRPMMin, wheelRPMMax)
	w4 := codec.ClipInt(rr, wheelRPMMin, wheelRPMMax)
	codec.WriteInt16(payload, 3, int16(w1))
	codec.WriteInt16(payload, 5, int16(w2))
	codec.WriteInt16(payload, 7, int16(w3))
	codec.WriteInt16(payload, 9, int16(w4))
	c.push(typeChassis, nextSeq(&c.seqDrive), payload)
}

// SetVelocity drives the chassis by velocity: x/y linear in m/s (clipped
// to [-3.5, 3.5]), z angular (clipped to [-600, 600]).
func (c *Controller) SetVelocity(x, y, z float64) {
	cx := codec.Clip(x, linearVelocityMin, linearVelocityMax)
	cy := codec.Clip(y, linearVelocityMin, linearVelocityMax)
	cz := codec.Clip(z, angularVelocityMin, angularVelocityMax)

	payload := []byte{
		0x00, 0x3f, 0x21, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	codec.WriteFloat32(payload, 3, float32(cx))
	codec.WriteFloat32(payload, 7, float32(cy))
	codec.WriteFloat32(payload, 11, float32(cz))
	c.push(typeChassis, nextSeq(&c.seqDrive), payload)
}

// SetGimbal drives the gimbal's y/z angular rates, clipped to
// [-1024, 1024].
func (c *Controller) SetGimbal(y, z int) {
	cy := codec.ClipInt(y, gimbalMin, gimbalMax)
	cz := codec.ClipInt(z, gimbalMin, gimbalMax)

	payload := []byte{0x00, 0x04, 0x69, 0x08, 0x05, 0x00, 0x00, 0x00, 0x00}
	codec.WriteInt16(payload, 5, int16(cy))
	codec.WriteInt16(payload, 7, int16(cz))
	c.push(typeGimbal, nextSeq(&c.seqGimbal), payload)
}
