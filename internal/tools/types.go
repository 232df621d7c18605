package tools

// Status distinguishes success from error in a tool result envelope.
type Status string

const (
	// StatusSuccess marks a result whose Data field carries the payload.
	StatusSuccess Status = "success"

	// StatusError marks a result whose Message and Error fields describe the
	// failure.
	StatusError Status = "error"
)

// Error codes carried in result envelopes. They mirror the engine's failure
// kinds so a model (or any caller) can react to the class of failure without
// parsing prose.
const (
	ErrCodeInvalidFormat = "InvalidFormat"
	ErrCodeQuery         = "QueryError"
	ErrCodeSpatialJoin   = "SpatialJoinError"
	ErrCodeGeometry      = "GeometryError"
	ErrCodeGeometryRead  = "GeometryReadError"
	ErrCodeProjection    = "ProjectionError"
	ErrCodeInvalidInput  = "InvalidInput"
	ErrCodeNotFound      = "NotFound"
	ErrCodeIO            = "IOError"
)

// Error is the structured error carried inside an error Result.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the envelope every tool operation returns. Status is always set;
// Data is present on success and is always sanitizer-clean JSON, Message and
// Error on failure.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// successResult builds a success envelope.
func successResult(message string, data any) Result {
	return Result{Status: StatusSuccess, Message: message, Data: data}
}

// errorResult builds an error envelope with a stable code.
func errorResult(code, message string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message},
	}
}
