package series

import "sync"

// Cap is the fixed number of most recent samples a buffer retains.
const Cap = 100

// Buffer is a bounded FIFO of conditioned samples for one channel.
// The acquisition loop pushes, display consumers snapshot; both take a
// short exclusive section so neither can observe a torn sequence.
type Buffer struct {
	mux    sync.Mutex
	values []float64
}

func NewBuffer() *Buffer {
	return &Buffer{values: make([]float64, 0, Cap)}
}

// Push appends a sample and evicts the oldest one once the buffer
// exceeds its capacity. At most one element is dropped per push.
func (b *Buffer) Push(value float64) {
	b.mux.Lock()
	defer b.mux.Unlock()
	if len(b.values) == Cap {
		copy(b.values, b.values[1:])
		b.values[Cap-1] = value
		return
	}
	b.values = append(b.values, value)
}

// Snapshot returns a copy of the buffered samples in insertion order.
func (b *Buffer) Snapshot() []float64 {
	b.mux.Lock()
	defer b.mux.Unlock()
	values := make([]float64, len(b.values))
	copy(values, b.values)
	return values
}

func (b *Buffer) Len() int {
	b.mux.Lock()
	defer b.mux.Unlock()
	return len(b.values)
}

// Reset discards all buffered samples.
func (b *Buffer) Reset() {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.values = b.values[:0]
}
