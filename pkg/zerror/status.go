package zerror

// Status is the transport independent category of a ZError.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusUnprocessableEntity
	StatusConflict
	StatusTooManyRequests
	StatusBadRequest
	StatusValidationFailed
	StatusInternalServerError
	StatusTimeout
	StatusNotImplemented
	StatusBadGateway
	StatusServiceUnavailable
)

var statusNames = [...]string{
	"UNKNOWN",
	"UNAUTHORIZED",
	"FORBIDDEN",
	"NOT_FOUND",
	"UNPROCESSABLE_ENTITY",
	"CONFLICT",
	"TOO_MANY_REQUESTS",
	"BAD_REQUEST",
	"VALIDATION_FAILED",
	"INTERNAL_SERVER_ERROR",
	"TIMEOUT",
	"NOT_IMPLEMENTED",
	"BAD_GATEWAY",
	"SERVICE_UNAVAILABLE",
}

// String returns the string representation of the status.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusUnknown]
}
