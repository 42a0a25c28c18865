package response

type ErrCode int

const (
	_                                 ErrCode = 10000 + iota
	ErrCodeMalformedJSON                      // 10001
	ErrCodeRequestBody                        // 10002
	ErrCodeResourceExists                     // 10003
	ErrCodeResourceNotFound                   // 10004
	ErrCodeSessionRunning                     // 10005
	ErrCodeTransportType                      // 10006
	ErrCodeConnectFailed                      // 10007
	ErrCodeAlreadyConnected                   // 10008
	ErrCodeChannelIndex                       // 10009
	ErrCodeTooManyJSONPatchOperations         // 10010
)

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end, and append comment of number
// Meanwhile, the corresponding error message SHOULD be appended in response.errors
// The order MUST be consistent between them
