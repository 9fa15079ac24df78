package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/grid-picks/internal/models"
)

// APIError represents a non-2xx response from the contest backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is maps 404 responses onto models.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == models.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
