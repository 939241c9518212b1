package domain

import (
	"errors"
	"fmt"
	"time"
)

type ErrorKind string

const (
	ErrKindValidation    ErrorKind = "VALIDATION"
	ErrKindInvalidState  ErrorKind = "INVALID_STATE"
	ErrKindDateOverlap   ErrorKind = "DATE_OVERLAP"
	ErrKindPaymentFailed ErrorKind = "PAYMENT_FAILED"
	ErrKindForbidden     ErrorKind = "FORBIDDEN"
	ErrKindNotFound      ErrorKind = "NOT_FOUND"
	ErrKindConflict      ErrorKind = "CONFLICT"
	ErrKindInternal      ErrorKind = "INTERNAL"
)

// Error is the single tagged error type used across the lifecycle core.
// Kind carries the taxonomy; Fields carry the structured context (current
// vs required status, the overlapping range, the gateway message).
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf classifies any error; non-domain errors are INTERNAL.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindInternal
}

func NewValidation(msg string) *Error {
	return &Error{Kind: ErrKindValidation, Message: msg}
}

func NewInvalidState(current, required RentalStatus) *Error {
	return &Error{
		Kind:    ErrKindInvalidState,
		Message: fmt.Sprintf("rental is %s, operation requires %s", current, required),
		Fields:  map[string]string{"current": string(current), "required": string(required)},
	}
}

func NewTerminalState(current RentalStatus) *Error {
	return &Error{
		Kind:    ErrKindInvalidState,
		Message: fmt.Sprintf("rental is already %s and cannot change state", current),
		Fields:  map[string]string{"current": string(current)},
	}
}

func NewDateOverlap(carID int64, start, end time.Time) *Error {
	return &Error{
		Kind:    ErrKindDateOverlap,
		Message: "car is already booked for an overlapping date range",
		Fields: map[string]string{
			"car_id": fmt.Sprintf("%d", carID),
			"start":  start.Format("2006-01-02"),
			"end":    end.Format("2006-01-02"),
		},
	}
}

func NewPaymentFailed(op, gatewayMsg string) *Error {
	return &Error{
		Kind:    ErrKindPaymentFailed,
		Message: fmt.Sprintf("payment %s declined", op),
		Fields:  map[string]string{"operation": op, "gateway_message": gatewayMsg},
	}
}

func NewForbidden(msg string) *Error {
	return &Error{Kind: ErrKindForbidden, Message: msg}
}

func NewNotFound(entity string, id int64) *Error {
	return &Error{
		Kind:    ErrKindNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Fields:  map[string]string{"entity": entity, "id": fmt.Sprintf("%d", id)},
	}
}

func NewConflict(msg string) *Error {
	return &Error{Kind: ErrKindConflict, Message: msg}
}

func NewInternal(msg string, cause error) *Error {
	return &Error{Kind: ErrKindInternal, Message: msg, cause: cause}
}
