// internal/manager/errors.go
//
// Discriminated error type for administrative operations.
//
// Context
// -------
// Every manager operation returns nil or a *manager.Error.  The Kind
// carries the failure class across the handler boundary so the HTTP
// layer can pick a status code without string matching, and the Msg is
// the human-readable reason shown to the administrator.  Nothing in this
// package panics across a package boundary.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package manager

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure.
type Kind int

const (
	KindValidation    Kind = iota + 1 // bad or missing input
	KindConflict                      // duplicate file name on create
	KindNotFound                      // file or record missing
	KindStorage                       // file-system write or delete failure
	KindPersistence                   // record insert, update, or delete failure
	KindAuthorization                 // capability or anti-forgery check failed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindPersistence:
		return "persistence"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// Error is the discriminated result every operation reports on failure.
type Error struct {
	Kind Kind
	Op   string // operation name, e.g. "create", "delete"
	Msg  string // human-readable reason for the admin UI
	Err  error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// errf builds an *Error in one line at call sites.
func errf(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}

// KindOf extracts the Kind from err, or zero when err is not a
// *manager.Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
