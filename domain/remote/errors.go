package remote

import "fmt"

// TransportError is returned when a request never produced an HTTP response
// (DNS failure, refused connection, timeout, reset)
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned when the platform answered with a status the
// operation does not accept
type HTTPStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("failed to %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// ProtocolError is returned when a successful response is missing a field the
// operation depends on
type ProtocolError struct {
	Op      string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.Op, e.Message)
}

// IsSuccess reports whether the status code is 2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode <= 299
}
