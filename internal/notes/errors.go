package notes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when a displayed note no longer exists on the
// backend.
var ErrNotFound = errors.New("note not found")

// StatusError is a non-2xx backend response.
type StatusError struct {
	Op     string
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("notes: %s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("notes: %s: %s (%s)", e.Op, e.Status, body)
}

// IsNotFound reports whether err means the addressed note does not exist.
// The backend answers an out-of-range index with 400 or 404.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusNotFound || statusErr.Code == http.StatusBadRequest
	}
	return false
}
