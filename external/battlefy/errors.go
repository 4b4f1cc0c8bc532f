package battlefy

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/bracket-exporter/internal/usecase"
)

var (
	ErrNetwork          = usecase.ErrUpstreamNetwork
	ErrUnexpectedStatus = usecase.ErrUpstreamStatus
	ErrAuthRequired     = usecase.ErrAuthRequired
	ErrNotFound         = usecase.ErrNotFound
	ErrDecode           = usecase.ErrMalformedPayload
	ErrCircuitOpen      = usecase.ErrDependencyUnavailable
)

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
}

func (e *StatusError) HTTPStatus() int {
	return e.StatusCode
}

// Is lets errors.Is match the status family sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnexpectedStatus:
		return true
	case ErrAuthRequired:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// Kind names the failure class of err for diagnostics.
func Kind(err error) string {
	return usecase.FailureKind(err)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	return usecase.FailureStatus(err)
}
