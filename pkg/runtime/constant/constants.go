package constant

import "errors"

// Slave identifiers the scan plan accepts.
const (
	MinSlaveID uint8 = 1
	MaxSlaveID uint8 = 4
)

var (
	ErrTransportType  = errors.New("unsupported transport type")
	ErrConnected      = errors.New("transport already connected")
	ErrAlreadyRunning = errors.New("acquisition session already running")
	ErrSessionRunning = errors.New("scan plan locked while the session is running")
	ErrNoSuchChannel  = errors.New("channel index out of range")
)
