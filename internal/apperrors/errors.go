package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services and handlers. Repositories keep
// their own not-found sentinels; services translate them into this set.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotFound             = errors.New("not found")
	ErrDuplicateRequest     = errors.New("friend request already pending")
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrDataUnavailable      = errors.New("data unavailable")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrCancelled            = errors.New("cancelled")
	ErrPartialFailure       = errors.New("partial failure")
)

// PartialFailureError reports a multi-step mutation that completed some but
// not all of its steps. Callers must see this distinctly from a plain
// failure: the completed steps may need reconciliation, and a retry of the
// whole operation is expected to be safe.
type PartialFailureError struct {
	Op        string
	Completed []string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially failed after [%s]: %v", e.Op, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPartialFailure) match any PartialFailureError.
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}
