package journal

const (
	KindConnect      = "connect"
	KindDisconnect   = "disconnect"
	KindSessionStart = "sessionStart"
	KindSessionStop  = "sessionStop"
	KindPlanReplace  = "planReplace"
	KindTickFailure  = "tickFailure"
	KindProfileApply = "profileApply"
)

const (
	queueSize          = 256
	defaultRecentLimit = 50
	eventTimeForm      = "2006-01-02 15:04:05.000"
)
