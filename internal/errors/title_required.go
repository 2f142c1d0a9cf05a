package errors

import "net/http"

var ErrTitleRequired = &Exception{
	Message:    "title must not be empty",
	StatusCode: http.StatusBadRequest,
}
