package errors

import "net/http"

var ErrMissingSetting = &Exception{
	Message:    "required setting missing",
	StatusCode: http.StatusInternalServerError,
}
