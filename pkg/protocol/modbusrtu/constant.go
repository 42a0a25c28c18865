package modbusrtu

import (
	"errors"
)

const (
	funcCodeReadCoils            uint8 = 1
	funcCodeReadHoldingRegisters uint8 = 3

	// slave + function code + byte count preceding the data, crc16 after it
	responseOverhead = 5

	// protocol limit for a single read
	maxReadQuantity = 124
)

var ErrBadConn = errors.New("Rtu bad connection\n")
var ErrServerBadResp = errors.New("Rtu server bad response\n")
var ErrSerialPortClosed = errors.New("Serial port closed\n")
var ErrDataLengthNotEnough = errors.New("Rtu message data length not enough\n")
var ErrCRC16Error = errors.New("Rtu message crc16 error\n")
var ErrMessageFunctionCodeError = errors.New("Rtu message function code error\n")
var ErrQuantityOutOfRange = errors.New("Rtu read quantity out of range\n")
