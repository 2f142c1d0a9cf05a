package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exception is an error that knows which HTTP status it maps to.
// Backends wrap their native errors in one of the sentinel exceptions of
// this package so no backend-specific error type crosses the storage
// boundary.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Wrap annotates a sentinel exception with the offending id or field.
// errors.Is against the sentinel still matches.
func Wrap(sentinel *Exception, detail string) error {
	return fmt.Errorf("%w: %s", sentinel, detail)
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
