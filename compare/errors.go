package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines comparison error kinds.
type ErrorKind string

const (
	KindSchema     ErrorKind = "schema"
	KindInput      ErrorKind = "input"
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindTimeout    ErrorKind = "timeout"
	KindCanceled   ErrorKind = "canceled"
	KindInternal   ErrorKind = "internal"
)

// Error wraps errors with a kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new comparison error.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// SchemaError reports that the key column is absent from one or both
// prepared tables. Both tables' column lists are carried so the caller can
// diagnose a naming mismatch.
type SchemaError struct {
	Column     string
	OldColumns []string
	NewColumns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("column %q is missing from one of the inputs (old columns: [%s], new columns: [%s])",
		e.Column, strings.Join(e.OldColumns, ", "), strings.Join(e.NewColumns, ", "))
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var cmpErr *Error
	if errors.As(err, &cmpErr) {
		kind = cmpErr.Kind
		if cmpErr.Err != nil {
			msg = cmpErr.Error()
		} else if cmpErr.Msg != "" {
			msg = cmpErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindSchema:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("schema")
	case KindInput:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("input")
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its comparison error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var cmpErr *Error
	if errors.As(err, &cmpErr) {
		return cmpErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}
