package chassis

import (
	"time"

	"github.com/samsamfire/gorobomaster/codec"
)

// LED sub-mode constants, exported so callers never hardcode the
// protocol byte at call sites.
const (
	LEDOff    uint16 = 0x70
	LEDOn     uint16 = 0x71
	LEDBreath uint16 = 0x72
	LEDFlash  uint16 = 0x73
)

// LED mask constants, reproduced from the original driver's
// definitions.h; combine with bitwise OR to address more than one LED.
const (
	LEDMaskAll   uint16 = 0x000f
	LEDMaskBack  uint16 = 0x0001
	LEDMaskFront uint16 = 0x0002
	LEDMaskLeft  uint16 = 0x0004
	LEDMaskRight uint16 = 0x0008
)

// ledTimingMax is the clip ceiling for every LED timing argument: the
// protocol accepts timings up to 60000 ms.
const ledTimingMax = 60000

func ledTemplate() []byte {
	return []byte{
		0x00, 0x3f, 0x32, 0x00, 0xff, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
}

// clipMillis clips a duration to the protocol's LED timing range and
// returns it as whole milliseconds.
func clipMillis(d time.Duration) uint16 {
	ms := codec.Clip(float64(d.Milliseconds()), 0, ledTimingMax)
	return uint16(ms)
}

// SetLEDOff turns off the LEDs selected by mask.
func (c *Controller) SetLEDOff(mask uint16) {
	payload := ledTemplate()
	codec.WriteUint16(payload, 3, LEDOff)
	codec.WriteUint16(payload, 14, mask)
	c.push(typeLED, nextSeq(&c.seqLED), payload)
}

// SetLEDOn turns the LEDs selected by mask solid at color (r, g, b).
func (c *Controller) SetLEDOn(mask uint16, r, g, b uint8) {
	payload := ledTemplate()
	codec.WriteUint16(payload, 3, LEDOn)
	codec.WriteUint8(payload, 6, r)
	codec.WriteUint8(payload, 7, g)
	codec.WriteUint8(payload, 8, b)
	codec.WriteUint16(payload, 14, mask)
	c.push(typeLED, nextSeq(&c.seqLED), payload)
}

// SetLEDBreath runs a breathing effect: a rise over tRise, then a fall
// over tDown, each clipped to [0, 60s].
func (c *Controller) SetLEDBreath(mask uint16, r, g, b uint8, tRise, tDown time.Duration) {
	payload := ledTemplate()
	codec.WriteUint16(payload, 3, LEDBreath)
	codec.WriteUint8(payload, 6, r)
	codec.WriteUint8(payload, 7, g)
	codec.WriteUint8(payload, 8, b)
	codec.WriteUint16(payload, 10, clipMillis(tRise))
	codec.WriteUint16(payload, 12, clipMillis(tDown))
	codec.WriteUint16(payload, 14, mask)
	c.push(typeLED, nextSeq(&c.seqLED), payload)
}

// SetLEDFlash runs a flashing effect: on for tOn, off for tOff, each
// clipped to [0, 60s].
func (c *Controller) SetLEDFlash(mask uint16, r, g, b uint8, tOn, tOff time.Duration) {
	payload := ledTemplate()
	codec.WriteUint16(payload, 3, LEDFlash)
	codec.WriteUint8(payload, 6, r)
	codec.WriteUint8(payload, 7, g)
	codec.WriteUint8(payload, 8, b)
	codec.WriteUint16(payload, 10, clipMillis(tOn))
	codec.WriteUint16(payload, 12, clipMillis(tOff))
	codec.WriteUint16(payload, 14, mask)
	c.push(typeLED, nextSeq(&c.seqLED), payload)
}
