package main

import (
	"fmt"

	"dass/pkg/decode"
	"dass/pkg/runtime/constant"
	"dass/pkg/utils/binutil"
	"dass/pkg/utils/crcutil"
)

// Bench scratch: check RTU framing against a reference capture.
func main() {
	// read 10 holding registers at 0 from slave 1
	request := []byte{
		0x01,
		0x03,
		0x00,
		0x00,
		0x00,
		0x0A,
	}
	sum := crcutil.CheckCrc16sum(request)
	crc16 := make([]byte, 2)
	binutil.WriteUint16(crc16, sum)
	fmt.Println(crc16)
	crc16Correct := []byte{0xC5, 0xCD}
	fmt.Println(crc16Correct)

	// captured response of a float32 pressure sensor, 41 A0 00 00 is 20.0
	response := []byte{
		0x01,
		0x03,
		0x04,
		0x41,
		0xA0,
		0x00,
		0x00,
	}
	fmt.Println(crcutil.CheckCrc16sum(response))

	words := []uint16{
		binutil.ParseUint16BigEndian(response[3:5]),
		binutil.ParseUint16BigEndian(response[5:7]),
	}
	value, ok := decode.Registers(constant.FLOAT32, words)
	fmt.Println(value, ok)
}
