package acquisition

import (
	"fmt"
	"testing"

	"dass/pkg/runtime"
	"dass/pkg/runtime/constant"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	registers map[uint16][]uint16
	failing   map[uint16]bool
	reads     []uint16
}

func (f *fakeReader) ReadRegisters(address uint16, quantity uint16, slaveID uint8) ([]uint16, error) {
	f.reads = append(f.reads, address)
	if f.failing[address] {
		return nil, fmt.Errorf("read timeout at %d", address)
	}
	return f.registers[address], nil
}

func (f *fakeReader) ReadCoils(address uint16, quantity uint16, slaveID uint8) ([]bool, error) {
	return nil, fmt.Errorf("coils not wired")
}

func TestExecutePlan(t *testing.T) {
	reader := &fakeReader{
		registers: map[uint16][]uint16{
			0:  {0x0014},         // INT16 20
			10: {0x41A0, 0x0000}, // FLOAT32 20.0
			20: {0x41A0},         // short frame, decoder must reject
		},
		failing: map[uint16]bool{30: true},
	}
	bindings := []runtime.Binding{
		{Name: "Temp", SlaveID: 1, Address: 0, DataType: constant.INT16},
		{Name: "Flow", SlaveID: 1, Address: 10, DataType: constant.FLOAT32},
		{Name: "Torn", SlaveID: 2, Address: 20, DataType: constant.FLOAT32},
		{Name: "Dead", SlaveID: 2, Address: 30, DataType: constant.UINT16},
	}

	results := executePlan(reader, bindings)

	assert.Len(t, results, 4)
	assert.Equal(t, []uint16{0, 10, 20, 30}, reader.reads)

	assert.Equal(t, "Temp", results[0].Name)
	assert.True(t, results[0].OK)
	assert.Equal(t, 20.0, results[0].Value)

	assert.Equal(t, "Flow", results[1].Name)
	assert.True(t, results[1].OK)
	assert.Equal(t, 20.0, results[1].Value)

	assert.False(t, results[2].OK)
	assert.False(t, results[3].OK)
}

func TestExecutePlanEmpty(t *testing.T) {
	results := executePlan(&fakeReader{}, nil)
	assert.Empty(t, results)
}

func TestAssembleVector(t *testing.T) {
	testCases := []struct {
		name     string
		results  []ReadResult
		count    int
		expected []float64
	}{
		{
			name: "exact fit",
			results: []ReadResult{
				{Name: "a", Value: 1, OK: true},
				{Name: "b", Value: 2, OK: true},
			},
			count:    2,
			expected: []float64{1, 2},
		},
		{
			name: "short plan zero-fills the tail",
			results: []ReadResult{
				{Name: "a", Value: 7.5, OK: true},
			},
			count:    3,
			expected: []float64{7.5, 0, 0},
		},
		{
			name: "absent result zero-fills its slot",
			results: []ReadResult{
				{Name: "a", Value: 1, OK: true},
				{Name: "b"},
				{Name: "c", Value: 3, OK: true},
			},
			count:    3,
			expected: []float64{1, 0, 3},
		},
		{
			name: "extra results are dropped",
			results: []ReadResult{
				{Name: "a", Value: 1, OK: true},
				{Name: "b", Value: 2, OK: true},
				{Name: "c", Value: 3, OK: true},
			},
			count:    2,
			expected: []float64{1, 2},
		},
		{
			name:     "no plan",
			results:  nil,
			count:    2,
			expected: []float64{0, 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, assembleVector(tc.results, tc.count))
		})
	}
}

func TestStandInVector(t *testing.T) {
	vector := standInVector(4)
	assert.Len(t, vector, 4)
	for _, v := range vector {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, standInSpan)
	}
}
