package util

import "errors"

// Workflow error taxonomy. Services return these sentinels (possibly wrapped
// with %w) and controllers translate them to HTTP codes; the core never
// retries or silently repairs.
var (
	ErrNotFound         = errors.New("referenced entity not found")
	ErrForbidden        = errors.New("caller is not the authorized party")
	ErrSelfReference    = errors.New("cannot send a group request to yourself")
	ErrAlreadyGrouped   = errors.New("student already belongs to a group")
	ErrDuplicatePending = errors.New("an identical pending request already exists")
	ErrAlreadyResolved  = errors.New("request has already been resolved")
	ErrConflict         = errors.New("operation conflicts with an existing active request")
	ErrSlotLocked       = errors.New("a document of this type is still under review")
	ErrUnsupportedType  = errors.New("unsupported document type")
	ErrCapacityExceeded = errors.New("supervisor group capacity exceeded")
	ErrValidation       = errors.New("validation failed")
	ErrConsistency      = errors.New("stored state violates a workflow invariant")
)
