package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnknownEndpoint  = errors.New("unknown endpoint")
	ErrNotApplicable    = errors.New("patch not applicable")
	ErrUnknownKind      = errors.New("unknown node kind")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EndpointError reports a connection whose source or target does not exist
type EndpointError struct {
	SourceID string
	TargetID string
	Missing  string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s: node %s does not exist", e.SourceID, e.TargetID, e.Missing)
}

func (e *EndpointError) Is(target error) bool {
	return target == ErrUnknownEndpoint
}

// PatchError represents a patch field that does not fit a matched entity
type PatchError struct {
	ID     string
	Field  string
	Reason string
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("cannot patch %s of %s: %s", e.Field, e.ID, e.Reason)
}

func (e *PatchError) Is(target error) bool {
	return target == ErrNotApplicable
}
