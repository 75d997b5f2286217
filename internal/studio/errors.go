package studio

import (
	"errors"
	"fmt"
)

// APIError is a failure reported by the backend in its JSON body.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned HTTP %d", e.Op, e.Status)
	}
	return e.Message
}

// Message extracts the user-facing text of err. Backend errors yield the
// server's message verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
