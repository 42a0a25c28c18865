package generic

import (
	"dass/pkg/protocol/modbusrtu"
	"dass/pkg/transport"
)

const (
	TransportTypeSerial    = "serial"
	TransportTypeModbusRtu = "modbusRtu"
)

var TransportTypeMap = map[string]func() transport.Transport{
	TransportTypeSerial:    func() transport.Transport { return transport.NewSerialTransport() },
	TransportTypeModbusRtu: func() transport.Transport { return modbusrtu.New() },
}
