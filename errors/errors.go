package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseFetch    Phase = "fetch"    // page/stylesheet/image retrieval
	PhaseResolve  Phase = "resolve"  // URL resolution
	PhaseNavigate Phase = "navigate" // navigation and anchor handling
	PhaseRegistry Phase = "registry" // view registry operations
	PhaseEngine   Phase = "engine"   // rendering backend operations
	PhaseRender   Phase = "render"   // render scheduling
)

// Kind categorizes the error
type Kind string

const (
	KindTooLarge     Kind = "too_large"
	KindNetwork      Kind = "network"
	KindMalformedURL Kind = "malformed_url"
	KindTimeout      Kind = "timeout"
	KindNotFound     Kind = "not_found"
	KindViewClosed   Kind = "view_closed"
	KindUnsupported  Kind = "unsupported"
	KindInvalidInput Kind = "invalid_input"
	KindBadStatus    Kind = "bad_status"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	URL    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.URL != "" {
		b.WriteString(" at ")
		b.WriteString(e.URL)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// URL sets the URL the error relates to
func (b *Builder) URL(url string) *Builder {
	b.err.URL = url
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TooLarge creates a size-cap violation error
func TooLarge(phase Phase, url string, size, limit int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooLarge,
		URL:    url,
		Detail: fmt.Sprintf("%d bytes exceeds %d byte limit", size, limit),
	}
}

// MalformedURL creates a URL parse/resolve error
func MalformedURL(url string, cause error) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindMalformedURL,
		URL:    url,
		Detail: "cannot parse URL",
		Cause:  cause,
	}
}

// Network creates a transport-level fetch error
func Network(url string, cause error) *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindNetwork,
		URL:    url,
		Detail: "request failed",
		Cause:  cause,
	}
}

// BadStatus creates a non-2xx response error
func BadStatus(url string, status int) *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindBadStatus,
		URL:    url,
		Detail: fmt.Sprintf("unexpected status %d", status),
	}
}

// ViewNotFound creates a recoverable unknown-view error
func ViewNotFound(id uint32) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("view %d not found", id),
	}
}

// ViewClosed creates a recoverable closed-view error
func ViewClosed(id uint32) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindViewClosed,
		Detail: fmt.Sprintf("view %d is closed", id),
	}
}

// Unsupported creates an unsupported capability error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
