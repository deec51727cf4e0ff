package detection

import "errors"

// Kind categorizes a detection failure.
type Kind string

const (
	// KindInvalidBounds means a source bounds rectangle was empty or unset.
	KindInvalidBounds Kind = "invalid_bounds"

	// KindInvalidCoefficient means an acceptance coefficient was outside its range.
	KindInvalidCoefficient Kind = "invalid_coefficient"

	// KindIndexOutOfRange means a region index was outside [0, Len).
	KindIndexOutOfRange Kind = "index_out_of_range"

	// KindEmptyResult means a region was requested from a result with no regions.
	KindEmptyResult Kind = "empty_result"

	// KindEmptyConfiguration means a pipeline was asked to detect zero classes.
	KindEmptyConfiguration Kind = "empty_configuration"

	// KindConfigUnreadable means a configuration resource could not be opened.
	KindConfigUnreadable Kind = "config_unreadable"

	// KindResourceLoad means a detector or template resource failed to load.
	KindResourceLoad Kind = "resource_load"

	// KindInvalidTemplate means a template cannot be correlated against the image.
	KindInvalidTemplate Kind = "invalid_template"
)

// Error is a typed detection failure.
//
// Two errors match under errors.Is when their kinds are equal, so callers
// compare against the Err* sentinels below rather than against messages:
//
//	if errors.Is(err, detection.ErrInvalidBounds) { ... }
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause == nil {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Cause.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidBounds      = &Error{Kind: KindInvalidBounds}
	ErrInvalidCoefficient = &Error{Kind: KindInvalidCoefficient}
	ErrIndexOutOfRange    = &Error{Kind: KindIndexOutOfRange}
	ErrEmptyResult        = &Error{Kind: KindEmptyResult}
	ErrEmptyConfiguration = &Error{Kind: KindEmptyConfiguration}
	ErrConfigUnreadable   = &Error{Kind: KindConfigUnreadable}
	ErrResourceLoad       = &Error{Kind: KindResourceLoad}
	ErrInvalidTemplate    = &Error{Kind: KindInvalidTemplate}
)

func newError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// NewError builds a typed error wrapping cause. It is used by the
// supporting packages (config loading, cascade backends) so that every
// failure in a run shares one taxonomy.
func NewError(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// IsRecoverable reports whether err is a caller-misuse or per-entry failure
// that should degrade to "no detections" instead of aborting a run.
func IsRecoverable(err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	switch de.Kind {
	case KindIndexOutOfRange, KindEmptyResult, KindInvalidCoefficient,
		KindResourceLoad, KindInvalidTemplate:
		return true
	}
	return false
}
