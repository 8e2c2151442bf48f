package bizerror

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")

	// ErrUnknownStatus is raised when a named status can not be resolved
	// against the fetched status catalog.
	ErrUnknownStatus = errors.New("unknown status")

	ErrInvalidTransition = errors.New("invalid transition")
	ErrEmptyReason       = errors.New("rejection reason is required")
	ErrEmptyLogEntry     = errors.New("log entry needs text or a photo")

	// ErrNeedsReconciliation flags an order whose status was changed but
	// whose transition log entry could not be written nor compensated.
	ErrNeedsReconciliation = errors.New("order needs manual reconciliation")
)
