package domain

import (
	"errors"
	"fmt"
)

// ErrorKind maps one-to-one onto the HTTP status the API layer answers with.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindInvalidRequest
	KindInvalidTransition
	KindForbidden
	KindConflict
)

// Reason codes let logs tell apart failures that share an external kind.
// Authorization failures on bookings are deliberately reported as NotFound
// so the API never confirms a booking's existence to unrelated users.
const (
	ReasonMissing        = "missing"
	ReasonNotOwner       = "not_owner"
	ReasonUnrelatedUser  = "unrelated_user"
	ReasonOwnBooking     = "owner_books_own_item"
	ReasonEmptyPage      = "empty_page"
	ReasonBadParams      = "bad_params"
	ReasonUnknownState   = "unknown_state"
	ReasonNoPastBooking  = "no_past_booking"
	ReasonBadStatus      = "bad_status"
	ReasonDecided        = "already_decided"
	ReasonDuplicateEmail = "duplicate_email"
)

// Error is the single error shape the services return. Message is safe to
// show to callers; Reason is internal only.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(reason, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func InvalidRequest(reason, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidTransition, Reason: ReasonDecided, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(reason, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from any error chain; unknown errors are
// internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ReasonOf extracts the internal reason code, empty for unknown errors.
func ReasonOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

func IsNotFound(err error) bool       { return KindOf(err) == KindNotFound }
func IsInvalidRequest(err error) bool { return KindOf(err) == KindInvalidRequest }
