package publish

import "time"

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 1 * time.Second
	keepAlive      = 60 * time.Second
	queueSize      = 64
)
