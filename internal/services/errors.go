package services

import (
	"errors"
	"strings"
)

var (
	ErrAcquisition   = errors.New("acquisition error")
	ErrTransform     = errors.New("transform error")
	ErrStore         = errors.New("store error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Error carries a marker plus the stage and operation that failed.
type Error struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Marker.Error())
	b.WriteString(": ")
	b.WriteString(buildDetail(e.Stage, e.Operation, e.Message))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &Error{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Err:       err,
	}
}

// ErrorDetails is the loggable breakdown of a wrapped error.
type ErrorDetails struct {
	Kind      string
	Stage     string
	Operation string
	Message   string
	Cause     string
}

// Details extracts kind/stage/operation/message from err. Errors not built by
// Wrap report kind "unknown" and their text as the message.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		return ErrorDetails{Kind: kindName(err), Message: err.Error()}
	}
	details := ErrorDetails{
		Kind:      kindName(svcErr.Marker),
		Stage:     svcErr.Stage,
		Operation: svcErr.Operation,
		Message:   svcErr.Message,
	}
	if svcErr.Err != nil {
		details.Cause = svcErr.Err.Error()
	}
	return details
}

func kindName(err error) string {
	switch {
	case errors.Is(err, ErrAcquisition):
		return "acquisition"
	case errors.Is(err, ErrTransform):
		return "transform"
	case errors.Is(err, ErrStore):
		return "store"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{stage, operation, message} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
