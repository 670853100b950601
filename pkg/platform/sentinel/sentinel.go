package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and lockers return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in store
//   - ErrVersionMismatch: caller's version token is stale
//   - ErrInvalidState: record in wrong state for requested operation
//   - ErrLockHeld: another actor holds the per-record lock
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrVersionMismatch = errors.New("version mismatch")
	ErrInvalidState    = errors.New("invalid state")
	ErrLockHeld        = errors.New("lock held")
	ErrUnavailable     = errors.New("unavailable")
)
