package response

var errors = map[ErrCode]string{
	ErrCodeMalformedJSON:              "The JSON you provided was not well-formed or did not validate against our published format.",
	ErrCodeRequestBody:                "Request body error",
	ErrCodeResourceExists:             "Resource %s already exists.",
	ErrCodeResourceNotFound:           "Resource %s not found.",
	ErrCodeSessionRunning:             "Acquisition session is running.",
	ErrCodeTransportType:              "Unsupported transport type %s.",
	ErrCodeConnectFailed:              "Unable to open endpoint %s: %s.",
	ErrCodeAlreadyConnected:           "Transport already connected.",
	ErrCodeChannelIndex:               "Channel %d out of range.",
	ErrCodeTooManyJSONPatchOperations: "The maximum number of operations in a JSON patch is %d.",
}

// !!! IMPORTANT PLEASE READ FIRST !!!
// You SHOULD add new code at the end of enum firstly.

var ErrMalformedJSON = &responseError{
	Code:    ErrCodeMalformedJSON,
	Message: errors[ErrCodeMalformedJSON],
}

var ErrRequestBody = &responseError{
	Code:    ErrCodeRequestBody,
	Message: errors[ErrCodeRequestBody],
}

var ErrSessionRunning = &responseError{
	Code:    ErrCodeSessionRunning,
	Message: errors[ErrCodeSessionRunning],
}

var ErrAlreadyConnected = &responseError{
	Code:    ErrCodeAlreadyConnected,
	Message: errors[ErrCodeAlreadyConnected],
}

func ErrResourceExists(resource string) *responseError {
	return generateError(ErrCodeResourceExists, resource)
}

func ErrResourceNotFound(resource string) *responseError {
	return generateError(ErrCodeResourceNotFound, resource)
}

func ErrTransportType(transportType string) *responseError {
	return generateError(ErrCodeTransportType, transportType)
}

func ErrConnectFailed(endpoint string, cause error) *responseError {
	return generateErrorWrapper(ErrCodeConnectFailed, cause, endpoint, cause)
}

func ErrChannelIndex(index int) *responseError {
	return generateError(ErrCodeChannelIndex, index)
}

func ErrTooManyJSONPatchOperations(max int) *responseError {
	return generateError(ErrCodeTooManyJSONPatchOperations, max)
}
