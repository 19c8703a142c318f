package chassis

// Boot-sequence payloads, captured verbatim from the vendor motion
// controller and treated as opaque protocol constants. They configure
// the motion controller to start emitting 0x0903 telemetry; no field
// within them is reinterpreted.
var bootPayloads = [3][]byte{
	{0x40, 0x48, 0x04, 0x00, 0x09, 0x00},
	{0x40, 0x48, 0x01, 0x09, 0x00, 0x00, 0x00, 0x03},
	{
		0x40, 0x48, 0x03, 0x09, 0x01, 0x03, 0x00, 0x07, 0xa7, 0x02, 0x29, 0x88,
		0x03, 0x00, 0x02, 0x00, 0x66, 0x3e, 0x3e, 0x4c, 0x03, 0x00, 0x02, 0x00,
		0xfb, 0xdc, 0xf5, 0xd7, 0x03, 0x00, 0x02, 0x00, 0x09, 0xa3, 0x26, 0xe2,
		0x03, 0x00, 0x02, 0x00, 0xf4, 0x1d, 0x1c, 0xdc, 0x03, 0x00, 0x02, 0x00,
		0x42, 0xee, 0x13, 0x1d, 0x03, 0x00, 0x02, 0x00, 0xb3, 0xf7, 0xe6, 0x47,
		0x03, 0x00, 0x02, 0x00, 0x32, 0x00,
	},
}

// bootSequence enqueues the three boot packets at device 0x201, type
// 0x0309, sequences 0, 1, 2.
func (c *Controller) bootSequence() {
	c.logger.Debug("sending boot sequence")
	for i, payload := range bootPayloads {
		c.push(typeBoot, uint16(i), payload)
	}
}
