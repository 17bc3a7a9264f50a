// internal/app/governance/errors.go
package governance

import "errors"

// Error taxonomy for governance and content operations. Every operation
// validates its preconditions before mutating anything and surfaces the most
// specific member below; callers translate these into transport responses.
// All are recoverable by the caller, never process-fatal.
var (
	// ErrUnauthorized means the actor lacks the required role or seniority.
	ErrUnauthorized = errors.New("actor is not authorized for this action")

	// ErrNotFound means the group, member, request, or content is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation does not apply to the current
	// state: approving a non-pending request, promoting an existing admin,
	// the system group's owner leaving without a successor.
	ErrInvalidState = errors.New("operation not valid in current state")

	// ErrConflict means the operation collides with existing state: a
	// duplicate pending join request, removing the owner directly.
	ErrConflict = errors.New("operation conflicts with existing state")
)
