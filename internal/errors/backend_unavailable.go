package errors

import "net/http"

var ErrBackendUnavailable = &Exception{
	Message:    "storage backend unavailable",
	StatusCode: http.StatusServiceUnavailable,
}
