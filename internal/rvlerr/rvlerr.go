// Package rvlerr carries the typing-error taxonomy that a failed type
// inference surfaces to its caller. These are fatal to the rewrite being
// checked (spec.md §7): the caller may catch one and skip the rewrite, but
// the core never tries to recover from one itself.
package rvlerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies which of the fixed set of typing failures occurred.
type Kind string

const (
	IncompatibleTypes       Kind = "IncompatibleTypes"
	IncompatibleConstraints Kind = "IncompatibleConstraints"
	CircularOrdering        Kind = "CircularOrdering"
	AmbiguousType           Kind = "AmbiguousType"
	ConstraintsTooStrong    Kind = "ConstraintsTooStrong"
	ImproperlyUnified       Kind = "ImproperlyUnified"
)

// TermDesc is everything a TypeError needs to name the offending term
// without reaching back into a map that may no longer hold the key (the
// bug spec.md §9 flags in the original's "specific" error path: format
// from the resolved rep and type directly, never index back into
// self.specifics[term]).
type TermDesc struct {
	// Name is the term's source-level name if it has one (e.g. an Input),
	// else a short description such as "add i8 %x, %y".
	Name string
}

// TypeError is the error returned by the gatherer, Finalize, Extend, and
// Validate whenever a typing rule is violated.
type TypeError struct {
	Kind    Kind
	Message string
	Term    TermDesc
}

func (e *TypeError) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Term.Name != "" {
		sb.WriteString(" for ")
		sb.WriteString(e.Term.Name)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// New builds a TypeError of the given kind, naming the term directly
// rather than through a lookup that may have already been invalidated.
func New(kind Kind, term TermDesc, format string, args ...interface{}) *TypeError {
	return &TypeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Term:    term,
	}
}

// Wrap attaches call-site context to a typing error. Uses pkg/errors so a
// later As(err) still recovers the original *TypeError through the wrap.
// Extend, Finalize and Validate return their *TypeError unwrapped.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}

// As reports whether err is, or wraps, a *TypeError of one of the given
// kinds, letting a driver decide whether a failure is recoverable.
func As(err error, kinds ...Kind) (*TypeError, bool) {
	te, ok := errors.Cause(err).(*TypeError)
	if !ok {
		return nil, false
	}
	if len(kinds) == 0 {
		return te, true
	}
	for _, k := range kinds {
		if te.Kind == k {
			return te, true
		}
	}
	return nil, false
}
