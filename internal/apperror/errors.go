package apperror

import (
	"errors"
	"fmt"
)

// Kinds. Every *Error unwraps to exactly one of these.
var (
	ErrValidation = errors.New("validation error")
	ErrFormat     = errors.New("format error")
	ErrRange      = errors.New("range error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// ErrDuplicateMembership signals that a (user, segment) row already exists.
// The engine treats it as already satisfied and never surfaces it.
var ErrDuplicateMembership = errors.New("membership already exists")

var (
	ErrEmptySlug          = New(ErrValidation, "slug", "Slug is required")
	ErrSlugRegex          = New(ErrFormat, "slug", "slug only allows uppercase letters, numbers and underscores")
	ErrSlugTaken          = New(ErrConflict, "slug", "Segment with this slug already exists")
	ErrPercentRange       = New(ErrRange, "auto_assign_percent", "auto_assign_percent must be between 0 and 100")
	ErrSegmentNotFound    = New(ErrNotFound, "segment", "Segment not found")
	ErrUserNotFound       = New(ErrNotFound, "user", "User not found")
	ErrUserIDInvalid      = New(ErrValidation, "user_id", "user id must be positive")
	ErrNoSegmentsProvided = New(ErrValidation, "segments", "No segments provided")
	ErrTooManySegments    = New(ErrValidation, "segments", "cannot update more than 100 segments in one request")
)

var (
	ErrCannotInsertT       = errors.New("cannot insert into table")
	ErrCannotDeleteFT      = errors.New("failed to remove from table")
	ErrCannotUpdateT       = errors.New("cannot update table")
	ErrDuringRowsIteration = errors.New("error during rows iteration")
	ErrFailedBTransaction  = errors.New("failed to begin transaction")
	ErrFailedCTransaction  = errors.New("failed to commit transaction")
)

// Error is a caller-facing failure. Field names the constraint or item that failed.
type Error struct {
	Kind  error
	Field string
	Msg   string
}

func New(kind error, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func SegmentNotFound(slug string) *Error {
	return New(ErrNotFound, slug, fmt.Sprintf("Segment '%s' not found", slug))
}

func AlreadyHasSegment(slug string) *Error {
	return New(ErrConflict, slug, fmt.Sprintf("User already has segment '%s'", slug))
}

func NotAMember(slug string) *Error {
	return New(ErrNotFound, slug, fmt.Sprintf("User doesn't have segment '%s'", slug))
}

// KindOf returns the kind sentinel of err, or nil for infrastructure errors.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrFormat, ErrRange, ErrConflict, ErrNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
