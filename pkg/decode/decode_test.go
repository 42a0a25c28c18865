package decode

import (
	"math"
	"testing"

	"dass/pkg/runtime/constant"

	"github.com/stretchr/testify/assert"
)

func TestRegisters(t *testing.T) {
	testCases := []struct {
		name     string
		dataType constant.DataType
		words    []uint16
		expected float64
	}{
		{name: "uint16", dataType: constant.UINT16, words: []uint16{0xFFFF}, expected: 65535},
		{name: "int16 positive", dataType: constant.INT16, words: []uint16{0x0014}, expected: 20},
		{name: "int16 minimum", dataType: constant.INT16, words: []uint16{0x8000}, expected: -32768},
		{name: "uint32", dataType: constant.UINT32, words: []uint16{0x0001, 0x0000}, expected: 65536},
		{name: "int32 negative", dataType: constant.INT32, words: []uint16{0xFFFF, 0xFFFE}, expected: -2},
		{name: "float32", dataType: constant.FLOAT32, words: []uint16{0x41A0, 0x0000}, expected: 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := Registers(tc.dataType, tc.words)
			assert.True(t, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestRegistersFloat32Pi(t *testing.T) {
	v, ok := Registers(constant.FLOAT32, []uint16{0x4048, 0xF5C3})
	assert.True(t, ok)
	assert.True(t, math.Abs(v-3.14) < 0.001)
}

func TestRegistersWidthMismatch(t *testing.T) {
	_, ok := Registers(constant.FLOAT32, []uint16{0x4048})
	assert.False(t, ok)

	_, ok = Registers(constant.INT16, []uint16{0x0001, 0x0002})
	assert.False(t, ok)

	_, ok = Registers(constant.UINT32, nil)
	assert.False(t, ok)
}
