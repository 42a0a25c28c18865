package acquisition

import "time"

const (
	// DefaultChannelCount matches the typical bench configuration; the
	// count is fixed for the lifetime of the process.
	DefaultChannelCount = 3
	MinChannelCount     = 1
	MaxChannelCount     = 8

	// standInSpan bounds the synthesized raw values used when no scan
	// plan is configured, [0, standInSpan) per channel per tick.
	standInSpan = 100.0

	tickInterval    = 100 * time.Millisecond
	failureBackoff  = 1 * time.Second
	stopJoinTimeout = 2 * time.Second

	defaultTransportTimeout = 1 * time.Second

	timeForm = "2006-01-02 15:04:05.000"
)

type State int

const (
	Idle State = iota
	Running
)

var StateToString = map[State]string{
	Idle:    "idle",
	Running: "running",
}
