package decode

import (
	"dass/pkg/runtime/constant"
	"dass/pkg/utils/binutil"
)

// Registers reconstructs one numeric value from big-endian data words.
// The word count must match the declared type exactly; a mismatch means
// the read returned a malformed block and yields no value. For 32-bit
// types the first word holds the most significant bits.
func Registers(dataType constant.DataType, words []uint16) (float64, bool) {
	width, known := constant.DataTypeWord[dataType]
	if !known || uint(len(words)) != width {
		return 0, false
	}

	switch dataType {
	case constant.UINT16:
		return float64(words[0]), true
	case constant.INT16:
		return float64(int16(words[0])), true
	case constant.UINT32:
		return float64(binutil.ParseUint32BigEndian(wordBytes(words))), true
	case constant.INT32:
		return float64(int32(binutil.ParseUint32BigEndian(wordBytes(words)))), true
	case constant.FLOAT32:
		return float64(binutil.ParseFloat32BigEndian(wordBytes(words))), true
	default:
		return 0, false
	}
}

func wordBytes(words []uint16) []byte {
	b := make([]byte, len(words)*2)
	for i, w := range words {
		binutil.WriteUint16(b[i*2:], w)
	}
	return b
}
