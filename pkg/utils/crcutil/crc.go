package crcutil

// CheckCrc16sum computes the Modbus CRC-16 of data (init 0xFFFF,
// polynomial 0xA001) and returns it byte swapped, so that writing the
// result big endian appends the checksum in wire order (low byte first).
func CheckCrc16sum(data []byte) uint16 {
	var sum uint16 = 0xFFFF
	for _, b := range data {
		sum ^= uint16(b)
		for i := 0; i < 8; i++ {
			if sum&1 != 0 {
				sum = (sum >> 1) ^ 0xA001
			} else {
				sum >>= 1
			}
		}
	}
	return sum<<8 | sum>>8
}
