package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation               Kind = "validation"
	KindAuthRequired             Kind = "auth_required"
	KindNotFound                 Kind = "not_found"
	KindForbidden                Kind = "forbidden"
	KindAvailabilityConflict     Kind = "availability_conflict"
	KindAlreadyCancelled         Kind = "already_cancelled"
	KindWithinCancellationWindow Kind = "within_cancellation_window"
	KindNotEligible              Kind = "not_eligible"
	KindDuplicateReview          Kind = "duplicate_review"
	KindBackendFailure           Kind = "backend_failure"
)

// Error is the only error shape application handlers return to transports.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind sentinels for errors.Is.
var (
	ErrValidation               = &Error{Kind: KindValidation}
	ErrAuthRequired             = &Error{Kind: KindAuthRequired}
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrForbidden                = &Error{Kind: KindForbidden}
	ErrAvailabilityConflict     = &Error{Kind: KindAvailabilityConflict}
	ErrAlreadyCancelled         = &Error{Kind: KindAlreadyCancelled}
	ErrWithinCancellationWindow = &Error{Kind: KindWithinCancellationWindow}
	ErrNotEligible              = &Error{Kind: KindNotEligible}
	ErrDuplicateReview          = &Error{Kind: KindDuplicateReview}
	ErrBackendFailure           = &Error{Kind: KindBackendFailure}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps err for errors.Is/As and reuses its text as the message.
// An existing *Error is returned unchanged.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func Validation(err error) error { return Wrap(KindValidation, err) }

// Backend marks a collaborator failure (store, object storage, broker).
func Backend(err error) error { return Wrap(KindBackendFailure, err) }

// KindOf reports the kind carried by err; unclassified errors are backend failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackendFailure
}

// Map classifies err by the first sentinel in kinds that it matches.
// Errors already classified pass through; anything else is a backend failure.
func Map(err error, kinds map[error]Kind) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	for target, kind := range kinds {
		if errors.Is(err, target) {
			return &Error{Kind: kind, Message: err.Error(), Err: err}
		}
	}
	return Backend(err)
}
