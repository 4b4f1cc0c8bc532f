package usecase

import (
	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrAuthRequired          = crerr.New("upstream requires authentication")
	ErrUpstreamNetwork       = crerr.New("upstream network failure")
	ErrUpstreamStatus        = crerr.New("upstream unexpected status")
	ErrMalformedPayload      = crerr.New("upstream payload malformed")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrExportFailed          = crerr.New("export failed")
)

// Failure kinds reported in fetch diagnostics.
const (
	FailureAuthRequired = "auth_required"
	FailureNotFound     = "not_found"
	FailureBadStatus    = "bad_status"
	FailureMalformed    = "malformed_payload"
	FailureCircuitOpen  = "circuit_open"
	FailureNetwork      = "network"
	FailureUnknown      = "unknown"
)

// FailureKind names the failure class of err.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case crerr.Is(err, ErrAuthRequired):
		return FailureAuthRequired
	case crerr.Is(err, ErrNotFound):
		return FailureNotFound
	case crerr.Is(err, ErrUpstreamStatus):
		return FailureBadStatus
	case crerr.Is(err, ErrMalformedPayload):
		return FailureMalformed
	case crerr.Is(err, ErrDependencyUnavailable):
		return FailureCircuitOpen
	case crerr.Is(err, ErrUpstreamNetwork):
		return FailureNetwork
	default:
		return FailureUnknown
	}
}

type httpStatusCarrier interface {
	HTTPStatus() int
}

// FailureStatus returns the HTTP status carried by err, or 0.
func FailureStatus(err error) int {
	var carrier httpStatusCarrier
	if crerr.As(err, &carrier) {
		return carrier.HTTPStatus()
	}
	return 0
}
