package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedSource is matched by every MalformedSourceError.
var ErrMalformedSource = errors.New("malformed source")

// ErrUnsupportedConstruct is matched by every UnsupportedConstructError.
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// ErrPathExplosion is matched by every PathExplosionError.
var ErrPathExplosion = errors.New("path explosion")

// ErrPathLimitExceeded is matched by every PathLimitExceededError.
var ErrPathLimitExceeded = errors.New("path limit exceeded")

// ErrWorkflowNotFound is returned by loaders asked for an unknown workflow.
var ErrWorkflowNotFound = errors.New("workflow not found")

// MalformedSourceError is returned when the input cannot be parsed or its
// nesting metadata is inconsistent.
type MalformedSourceError struct {
	Pos    Position
	Reason string
	Err    error
}

func (e *MalformedSourceError) Error() string {
	msg := fmt.Sprintf("%s: malformed source: %s", e.Pos, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedSourceError) Is(target error) bool { return target == ErrMalformedSource }

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// UnsupportedConstructError is returned for control forms outside the modeled
// subset: loops, dynamically resolved activity targets, early exits.
type UnsupportedConstructError struct {
	Pos        Position
	Construct  string
	Suggestion string
}

func (e *UnsupportedConstructError) Error() string {
	msg := fmt.Sprintf("%s: unsupported construct: %s", e.Pos, e.Construct)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

func (e *UnsupportedConstructError) Is(target error) bool { return target == ErrUnsupportedConstruct }

// PathExplosionError is returned before enumeration when the number of gates
// exceeds the configured ceiling.
type PathExplosionError struct {
	// Pos is the position of the first gate beyond the ceiling.
	Pos   Position
	Gates int
	Limit int
}

func (e *PathExplosionError) Error() string {
	return fmt.Sprintf("%s: path explosion: %d gates exceed the limit of %d (%d assignments); split the workflow or raise max_gates",
		e.Pos, e.Gates, e.Limit, uint64(1)<<min(e.Gates, 63))
}

func (e *PathExplosionError) Is(target error) bool { return target == ErrPathExplosion }

// PathLimitExceededError is returned mid-enumeration when the number of distinct
// paths would exceed the configured ceiling.
type PathLimitExceededError struct {
	// Pos is the position of the last gate resolved on the offending path.
	Pos   Position
	Count int
	Limit int
}

func (e *PathLimitExceededError) Error() string {
	return fmt.Sprintf("%s: path limit exceeded: reached %d distinct paths, limit is %d; simplify nested decisions or raise max_paths",
		e.Pos, e.Count, e.Limit)
}

func (e *PathLimitExceededError) Is(target error) bool { return target == ErrPathLimitExceeded }
