package errors

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	// Per-field validation messages, set only for 400 responses
	// that aggregate several checks (e.g. registration).
	Details []string
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// StatusCode returns the classification of err, or 500 when err
// carries no explicit status.
func StatusCode(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return 500
}
