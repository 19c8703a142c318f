package chassis

// BlasterKind is the blaster's closed set of firing modes, rendered as a
// typed enum rather than an interface hierarchy since the set of modes
// is fixed and carries no per-kind behavior.
type BlasterKind uint8

const (
	BlasterInfrared BlasterKind = iota
	BlasterGel
)

// blasterPayloads maps each BlasterKind to its fixed protocol template.
var blasterPayloads = map[BlasterKind][]byte{
	BlasterInfrared: {0x00, 0x3f, 0x55, 0x73, 0x00, 0xff, 0x00, 0x01, 0x28, 0x00, 0x00},
	BlasterGel:      {0x00, 0x3f, 0x51, 0x01},
}

// SetBlaster fires the blaster once, in the given mode.
func (c *Controller) SetBlaster(kind BlasterKind) {
	payload, ok := blasterPayloads[kind]
	if !ok {
		c.logger.Warn("unknown blaster kind, ignoring", "kind", kind)
		return
	}
	c.push(typeBlaster, nextSeq(&c.seqBlaster), append([]byte(nil), payload...))
}
