// Package ledgererr defines the error kinds surfaced by the ledger core.
//
// Every failure carries a Kind, which tells the caller how to react, and a
// Code, which names the concrete rule that was violated. Sentinel values
// match with errors.Is by code, so wrapped or re-messaged errors still match.
package ledgererr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how a caller can react to it.
type Kind int8

const (
	KindUnknown Kind = iota
	// KindNotFound means the entity is absent or not owned by the caller.
	KindNotFound
	// KindInvalidInput means the request breaks a value precondition.
	KindInvalidInput
	// KindStateConflict means the request is well formed but the current state forbids it.
	KindStateConflict
	// KindStorageFailure means the unit of work could not be read or committed.
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindStateConflict:
		return "StateConflict"
	case KindStorageFailure:
		return "StorageFailure"
	default:
		return "Unknown"
	}
}

// Code names the concrete failure.
type Code string

const (
	CodeAccountNotFound     Code = "AccountNotFound"
	CodeTransactionNotFound Code = "TransactionNotFound"
	CodeTransferNotFound    Code = "TransferNotFound"
	CodeRecurringNotFound   Code = "RecurringNotFound"
	CodeCategoryNotFound    Code = "CategoryNotFound"

	CodeInvalidAmount       Code = "InvalidAmount"
	CodeInvalidRange        Code = "InvalidRange"
	CodeInvalidConfidence   Code = "InvalidConfidence"
	CodeInvalidCreditTerms  Code = "InvalidCreditTerms"
	CodeInvalidOccurrence   Code = "InvalidOccurrence"
	CodeInvalidType         Code = "InvalidType"
	CodeInvalidSchedule     Code = "InvalidSchedule"
	CodeSameAccountTransfer Code = "SameAccountTransfer"

	CodeAccountInactive   Code = "AccountInactive"
	CodeRecurringInactive Code = "RecurringInactive"
	CodeCrossUserTransfer Code = "CrossUserTransfer"
	CodeAlreadyGenerated  Code = "AlreadyGenerated"

	CodeStorageFailure Code = "StorageFailure"
)

// Error is the structured error returned by ledger operations.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ledger error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates a ledger error.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates a ledger error with a formatted message.
func Newf(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps err as a StorageFailure. Ledger errors pass through unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Code: CodeStorageFailure, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for non-ledger errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of err, or "" for non-ledger errors.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

var (
	ErrAccountNotFound     = New(KindNotFound, CodeAccountNotFound, "account not found")
	ErrTransactionNotFound = New(KindNotFound, CodeTransactionNotFound, "transaction not found")
	ErrTransferNotFound    = New(KindNotFound, CodeTransferNotFound, "transfer not found")
	ErrRecurringNotFound   = New(KindNotFound, CodeRecurringNotFound, "recurring transaction not found")
	ErrCategoryNotFound    = New(KindNotFound, CodeCategoryNotFound, "category not found")

	ErrInvalidAmount       = New(KindInvalidInput, CodeInvalidAmount, "amount must be greater than zero")
	ErrInvalidRange        = New(KindInvalidInput, CodeInvalidRange, "start date must not be after end date")
	ErrInvalidConfidence   = New(KindInvalidInput, CodeInvalidConfidence, "confidence must be between 0 and 100")
	ErrInvalidCreditTerms  = New(KindInvalidInput, CodeInvalidCreditTerms, "invalid credit account terms")
	ErrInvalidOccurrence   = New(KindInvalidInput, CodeInvalidOccurrence, "date is not an occurrence of the template")
	ErrInvalidType         = New(KindInvalidInput, CodeInvalidType, "invalid type")
	ErrInvalidSchedule     = New(KindInvalidInput, CodeInvalidSchedule, "invalid recurring schedule")
	ErrSameAccountTransfer = New(KindInvalidInput, CodeSameAccountTransfer, "source and destination accounts must differ")

	ErrAccountInactive   = New(KindStateConflict, CodeAccountInactive, "account is inactive")
	ErrRecurringInactive = New(KindStateConflict, CodeRecurringInactive, "recurring transaction is inactive")
	ErrCrossUserTransfer = New(KindStateConflict, CodeCrossUserTransfer, "accounts belong to different users")
	ErrAlreadyGenerated  = New(KindStateConflict, CodeAlreadyGenerated, "occurrence already generated")
)
