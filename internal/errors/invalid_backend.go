package errors

import "net/http"

var ErrInvalidBackend = &Exception{
	Message:    "unrecognized storage backend",
	StatusCode: http.StatusInternalServerError,
}
