package series

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushAndSnapshot(t *testing.T) {
	b := NewBuffer()
	b.Push(1)
	b.Push(2)
	b.Push(3)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []float64{1, 2, 3}, b.Snapshot())
}

func TestPushEvictsOldest(t *testing.T) {
	b := NewBuffer()
	for i := 0; i < Cap+7; i++ {
		b.Push(float64(i))
	}
	assert.Equal(t, Cap, b.Len())

	values := b.Snapshot()
	assert.Equal(t, Cap, len(values))
	assert.Equal(t, float64(7), values[0])
	assert.Equal(t, float64(Cap+6), values[Cap-1])
	for i := 1; i < len(values); i++ {
		assert.Equal(t, values[i-1]+1, values[i])
	}
}

func TestReset(t *testing.T) {
	b := NewBuffer()
	b.Push(1)
	b.Push(2)
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, []float64{}, b.Snapshot())

	b.Push(9)
	assert.Equal(t, []float64{9}, b.Snapshot())
}

func TestConcurrentPushSnapshot(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Push(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			values := b.Snapshot()
			assert.LessOrEqual(t, len(values), Cap)
		}
	}()
	wg.Wait()
	assert.Equal(t, Cap, b.Len())
}
