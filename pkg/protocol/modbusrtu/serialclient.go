package modbusrtu

import (
	"time"

	"go.bug.st/serial"
	"k8s.io/klog/v2"
)

type SerialClient struct {
	Timeout time.Duration
	Port    serial.Port
}

// AskAtLeast writes request to the port and reads until response is
// full. A read timeout before the expected length arrives is reported
// as ErrDataLengthNotEnough; extra bytes beyond the expected length are
// a protocol violation.
func (sc *SerialClient) AskAtLeast(request []byte, response []byte) (int, error) {
	rql, err := sc.Port.Write(request)
	if err != nil {
		klog.V(2).InfoS("Failed to write bytes to serial port", "err", err)
		return 0, ErrBadConn
	}
	klog.V(5).InfoS("Succeeded to write bytes to serial port", "bytes", request, "length", rql)
	// 设置读超时
	if err := sc.Port.SetReadTimeout(sc.Timeout); err != nil {
		klog.V(2).InfoS("Failed to arm serial read timeout", "err", err)
		return 0, err
	}

	buf := make([]byte, 300)
	responseBytesLength := len(response)
	bytesLength := 0

	for {
		n, err := sc.Port.Read(buf)
		if err != nil {
			klog.V(2).InfoS("Failed to read bytes from serial port", "err", err)
			return 0, err
		}
		if n == 0 {
			break
		}
		if bytesLength+n > responseBytesLength {
			klog.V(2).InfoS("Serial response longer than expected", "expected", responseBytesLength, "received", bytesLength+n)
			return 0, ErrServerBadResp
		}
		copy(response[bytesLength:], buf[:n])
		bytesLength += n

		if bytesLength == responseBytesLength {
			break
		}
	}
	if responseBytesLength != bytesLength {
		klog.V(2).InfoS("Rtu message data length not enough", "bytesLength", bytesLength)
		return 0, ErrDataLengthNotEnough
	}

	return bytesLength, nil
}
