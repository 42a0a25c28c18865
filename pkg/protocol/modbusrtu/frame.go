package modbusrtu

import (
	"dass/pkg/utils/binutil"
	"dass/pkg/utils/crcutil"
)

// buildReadFrame assembles one request frame:
// slaveId + functionCode + startAddress + quantity + crc16.
func buildReadFrame(slaveID uint8, funcCode uint8, address uint16, quantity uint16) []byte {
	message := make([]byte, 6)
	message[0] = slaveID
	message[1] = funcCode
	binutil.WriteUint16(message[2:], address)
	binutil.WriteUint16(message[4:], quantity)
	crc16 := make([]byte, 2)
	binutil.WriteUint16(crc16, crcutil.CheckCrc16sum(message))
	return append(message, crc16...)
}

// responseLength is the full frame size for a read returning dataBytes
// payload bytes.
func responseLength(dataBytes int) int {
	return dataBytes + responseOverhead
}

// validateResponse checks the response envelope against the request it
// answers and returns a copy of the payload bytes. An exception
// response (error bit set on the function code) and any crc or length
// mismatch are rejected.
func validateResponse(request []byte, response []byte) ([]byte, error) {
	if len(response) < responseOverhead {
		return nil, ErrDataLengthNotEnough
	}
	if response[0] != request[0] {
		return nil, ErrServerBadResp
	}
	if response[1]&0x80 != 0 {
		return nil, ErrMessageFunctionCodeError
	}
	if response[1] != request[1] {
		return nil, ErrServerBadResp
	}
	sum := crcutil.CheckCrc16sum(response[:len(response)-2])
	if binutil.ParseUint16BigEndian(response[len(response)-2:]) != sum {
		return nil, ErrCRC16Error
	}
	byteCount := int(response[2])
	if byteCount != len(response)-responseOverhead {
		return nil, ErrDataLengthNotEnough
	}
	return binutil.Dup(response[3 : 3+byteCount]), nil
}
