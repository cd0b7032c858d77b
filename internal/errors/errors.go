package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind categorizes a pipeline failure
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindOutOfRange     Kind = "out_of_range"
	KindParse          Kind = "parse_error"
	KindSchemaMismatch Kind = "schema_mismatch"
	KindEmptyFilter    Kind = "empty_filter"
	KindInvalidInput   Kind = "invalid_input"
	KindIO             Kind = "io_error"
)

// Pipeline stage names used in error and log context
const (
	StageSelect    = "select"
	StageLoad      = "load"
	StageFilter    = "filter"
	StageAggregate = "aggregate"
	StageRender    = "render"
	StageExport    = "export"
	StageConfig    = "config"
)

// PipelineError is the error type returned by every pipeline stage
type PipelineError struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	msg := e.Message
	if e.Stage != "" {
		msg = fmt.Sprintf("%s: %s", e.Stage, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is a PipelineError of the same kind.
// A target without a kind matches any PipelineError.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error
func New(kind Kind, stage, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks
var (
	ErrNotFound       = &PipelineError{Kind: KindNotFound}
	ErrOutOfRange     = &PipelineError{Kind: KindOutOfRange}
	ErrParse          = &PipelineError{Kind: KindParse}
	ErrSchemaMismatch = &PipelineError{Kind: KindSchemaMismatch}
	ErrEmptyFilter    = &PipelineError{Kind: KindEmptyFilter}
	ErrInvalidInput   = &PipelineError{Kind: KindInvalidInput}
	ErrIO             = &PipelineError{Kind: KindIO}
)

// NewNotFound reports a date that has no snapshot in the dataset
func NewNotFound(date string) *PipelineError {
	return New(KindNotFound, StageSelect, fmt.Sprintf("date %s not found in dataset", date), nil).
		WithContext("date", date)
}

// NewOutOfRange reports a start date with no preceding baseline day
func NewOutOfRange(stage, message string) *PipelineError {
	return New(KindOutOfRange, stage, message, nil)
}

// NewParseError reports a malformed or unreadable snapshot
func NewParseError(path string, cause error) *PipelineError {
	return New(KindParse, StageLoad, fmt.Sprintf("cannot parse %s", path), cause).
		WithContext("path", path)
}

// NewSchemaMismatch reports columns missing from every known schema era
func NewSchemaMismatch(stage, path string, columns []string) *PipelineError {
	return New(KindSchemaMismatch, stage, fmt.Sprintf("%s has none of the expected columns %v", path, columns), nil).
		WithContext("path", path).
		WithContext("columns", columns)
}

// NewEmptyFilter reports a location filter with no fields set
func NewEmptyFilter() *PipelineError {
	return New(KindEmptyFilter, StageFilter, "at least one of country, state or county is required", nil)
}

// NewInvalidInput reports a bad user-supplied value
func NewInvalidInput(stage, message string) *PipelineError {
	return New(KindInvalidInput, stage, message, nil)
}

// NewIOError wraps a filesystem failure
func NewIOError(stage, message string, cause error) *PipelineError {
	return New(KindIO, stage, message, cause)
}

// Wrap attaches a stage to err. PipelineErrors keep their kind; any other
// error becomes an io_error.
func Wrap(err error, stage, message string) error {
	if err == nil {
		return nil
	}
	var pErr *PipelineError
	if stderrors.As(err, &pErr) {
		if pErr.Stage == "" {
			pErr.Stage = stage
		}
		return pErr
	}
	return New(KindIO, stage, message, err)
}

// KindOf returns the kind of err, or an empty kind when err is not a PipelineError
func KindOf(err error) Kind {
	var pErr *PipelineError
	if stderrors.As(err, &pErr) {
		return pErr.Kind
	}
	return ""
}
