// Package apperr defines the error taxonomy shared by the build passes and
// the query surfaces.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrIdentifierCollision = errors.New("identifier collision")
	ErrMalformedEntry      = errors.New("malformed bibliography entry")
	ErrDateShape           = errors.New("unexpected issued date shape")
	ErrGraphInvariant      = errors.New("graph invariant violated")
	ErrExternalService     = errors.New("external service failed")
	ErrNotReady            = errors.New("no completed build")
)

// CollisionError reports two notes claiming the same identifier.
type CollisionError struct {
	ID        string
	Path      string
	OtherPath string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("the notes %s and %s share the same identifier %q", e.Path, e.OtherPath, e.ID)
}

func (e *CollisionError) Is(target error) bool { return target == ErrIdentifierCollision }

// EntryError reports a bibliography record that cannot be used.
// Err is ErrMalformedEntry or ErrDateShape.
type EntryError struct {
	ID     string
	Reason string
	Err    error
}

func (e *EntryError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	}
	return fmt.Sprintf("%v %q: %s", e.Err, e.ID, e.Reason)
}

func (e *EntryError) Unwrap() error { return e.Err }

// ServiceError carries the captured error output of a failed subprocess.
type ServiceError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ServiceError) Error() string {
	msg := e.Stderr
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Command, msg)
}

func (e *ServiceError) Is(target error) bool { return target == ErrExternalService }

func (e *ServiceError) Unwrap() error { return e.Err }
