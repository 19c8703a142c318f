// Package queue implements the bounded, drop-oldest packet FIFO that
// connects the engine's worker goroutines: a single mutex guarding a
// plain slice, rather than a condition-variable-backed container.
// Signaling waiters is the caller's responsibility, not the queue's.
package queue

import (
	"sync"

	"github.com/samsamfire/gorobomaster/protocol"
)

// DefaultCapacity is the bounded queue depth used for both the outbound
// and inbound queues.
const DefaultCapacity = 10

// Queue is a thread-safe, capacity-bounded FIFO of packets. On overflow
// the oldest entry is dropped to make room for the new one; Push never
// blocks the producer.
type Queue struct {
	mu       sync.Mutex
	items    []*protocol.Packet
	capacity int
}

// New returns an empty queue with the given capacity.
func New(capacity int) *Queue {
	return &Queue{
		items:    make([]*protocol.Packet, 0, capacity),
		capacity: capacity,
	}
}

// Push appends p, dropping the oldest entry first if the queue is at
// capacity.
func (q *Queue) Push(p *protocol.Packet) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
	}
	q.items = append(q.items, p)
}

// Pop removes and returns the oldest entry, or an invalid sentinel packet
// if the queue is empty.
func (q *Queue) Pop() *protocol.Packet {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return protocol.InvalidPacket()
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p
}

// Size returns the current number of queued packets.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue currently holds no packets.
func (q *Queue) Empty() bool {
	return q.Size() == 0
}

// Clear discards every queued packet.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}
