// Package apperr holds the error kinds shared by the catalog, resolver and
// editor layers and the translation of those kinds into chat replies.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no catalog row satisfies a filter.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a lookup that needs one row finds several.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrTransient covers store contention, connection loss and timeouts.
	ErrTransient = errors.New("catalog temporarily unavailable")
	// ErrValidation is the parent of every FieldError.
	ErrValidation = errors.New("invalid input")
	// ErrPermission is returned when the actor may not perform the change.
	ErrPermission = errors.New("permission denied")
)

// MsgTryAgain is shown to users whenever the store misbehaves.
const MsgTryAgain = "Encountered an error please try again later."

// FieldError reports a switch attribute that could not be applied.
type FieldError struct {
	Field    string
	Expected string // empty when the attribute does not exist
	Value    string
}

func (e *FieldError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("Attribute %s does not exist on a switch!", e.Field)
	}
	return fmt.Sprintf("'%s' is not valid for attribute %s. Needs to be of type %s", e.Value, e.Field, e.Expected)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error of the given kind whose text is meant for the user.
func New(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Domain reports whether err is one of the kinds above other than
// ErrTransient, i.e. an outcome the caller caused rather than the store.
func Domain(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrAmbiguous, ErrValidation, ErrPermission} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// UserMessage renders err for a chat reply. Store failures collapse into a
// generic retry hint; everything else keeps its own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrTransient) || !Domain(err) {
		return MsgTryAgain
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return errors.Cause(err).Error()
}
