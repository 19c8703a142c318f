package protocol

// deviceBuffer holds the per-device-id reassembly state: the accumulated
// bytes not yet consumed into a packet, and the declared length of the
// frame currently being collected (0 means still searching for a header).
type deviceBuffer struct {
	buffer         []byte
	expectedLength int
}

// Reassembler rebuilds framed packets from a stream of inbound CAN frame
// payloads, one buffer per subscribed device id. It implements the
// SEARCHING/COLLECTING state machine: scan for the sync byte and a header
// whose CRC8 checks out, then accumulate until the declared length is
// reached and the trailing CRC16 is checked.
type Reassembler struct {
	buffers map[uint32]*deviceBuffer
}

// NewReassembler creates one buffer per device id in deviceIDs. Feeding
// data for an id not in this set is a no-op — the engine discards frames
// from unsubscribed ids before they ever reach the reassembler.
func NewReassembler(deviceIDs []uint32) *Reassembler {
	buffers := make(map[uint32]*deviceBuffer, len(deviceIDs))
	for _, id := range deviceIDs {
		buffers[id] = &deviceBuffer{}
	}
	return &Reassembler{buffers: buffers}
}

// Subscribed reports whether deviceID has a reassembly buffer.
func (r *Reassembler) Subscribed(deviceID uint32) bool {
	_, ok := r.buffers[deviceID]
	return ok
}

// Feed appends frame's bytes to deviceID's buffer and drives the
// reassembly state machine to completion, returning every packet
// completed as a result. Usually this is zero or one packet, but a frame
// that happens to complete one packet and contain the start of a second
// can yield more than one in a single call.
func (r *Reassembler) Feed(deviceID uint32, frame []byte) []*Packet {
	b, ok := r.buffers[deviceID]
	if !ok {
		return nil
	}
	b.buffer = append(b.buffer, frame...)

	var out []*Packet
	for {
		if b.expectedLength == 0 {
			if !r.search(b) {
				break
			}
		}
		if len(b.buffer) < b.expectedLength {
			break
		}
		candidate := b.buffer[:b.expectedLength]
		if VerifyFullCRC(candidate) {
			out = append(out, FromRaw(deviceID, candidate))
		}
		b.buffer = b.buffer[b.expectedLength:]
		b.expectedLength = 0
	}
	return out
}

// search implements the SEARCHING state: find the sync byte, discard
// everything before it, and check whether the 4 header bytes that follow
// carry a valid CRC8. It returns true once expectedLength has been set
// (transition to COLLECTING) or false if the buffer doesn't yet hold
// enough data to decide, in which case the caller should wait for more.
func (r *Reassembler) search(b *deviceBuffer) bool {
	for {
		idx := indexOfSync(b.buffer)
		if idx < 0 {
			b.buffer = b.buffer[:0]
			return false
		}
		b.buffer = b.buffer[idx:]
		if len(b.buffer) < 4 {
			return false
		}
		if VerifyHeaderCRC(b.buffer) {
			b.expectedLength = int(b.buffer[1])
			return true
		}
		// Not a real header; this 0x55 was coincidental. Drop it and keep
		// looking for the next candidate.
		b.buffer = b.buffer[1:]
	}
}

func indexOfSync(buf []byte) int {
	for i, v := range buf {
		if v == syncByte {
			return i
		}
	}
	return -1
}
