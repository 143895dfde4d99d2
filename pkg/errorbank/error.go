// Package errorbank defines the application error type shared by the HTTP and
// gRPC transports.
package errorbank

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind classifies an error for both transports.
type Kind string

const (
	// KindBadRequest marks requests that could not be decoded.
	KindBadRequest Kind = "bad_request"
	// KindValidation marks documents rejected by schema rules or unique indexes.
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

var statuses = map[Kind]struct {
	http int
	grpc codes.Code
}{
	KindBadRequest: {http.StatusBadRequest, codes.InvalidArgument},
	KindValidation: {http.StatusBadRequest, codes.InvalidArgument},
	KindNotFound:   {http.StatusNotFound, codes.NotFound},
	KindInternal:   {http.StatusInternalServerError, codes.Internal},
}

// AppError is a classified error whose message is safe to show to clients.
// The cause, if any, stays server side. All methods accept a nil receiver,
// which reads as an internal error.
type AppError struct {
	kind  Kind
	msg   string
	cause error
	meta  map[string]any
}

// Option customises an AppError built by New and the kind constructors.
type Option func(*AppError)

func WithCause(err error) Option {
	return func(e *AppError) { e.cause = err }
}

// WithDetail records key=value in Details, e.g. the rejected fields.
func WithDetail(key string, value any) Option {
	return func(e *AppError) {
		if e.meta == nil {
			e.meta = map[string]any{}
		}
		e.meta[key] = value
	}
}

// New builds an error of kind. An empty message becomes the kind name.
func New(kind Kind, message string, opts ...Option) *AppError {
	e := &AppError{kind: kind, msg: message}
	if e.msg == "" {
		e.msg = string(kind)
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

func BadRequest(message string, opts ...Option) *AppError {
	return New(KindBadRequest, message, opts...)
}

func Validation(message string, opts ...Option) *AppError {
	return New(KindValidation, message, opts...)
}

func NotFound(message string, opts ...Option) *AppError {
	return New(KindNotFound, message, opts...)
}

func Internal(message string, opts ...Option) *AppError {
	return New(KindInternal, message, opts...)
}

// Error appends the cause to the message.
func (e *AppError) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *AppError) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

// Message is the client-facing text, without the cause.
func (e *AppError) Message() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *AppError) Details() map[string]any {
	if e == nil {
		return nil
	}
	return e.meta
}

// StatusCode is the HTTP status of the kind; unknown kinds are 500.
func (e *AppError) StatusCode() int {
	if s, ok := statuses[e.Kind()]; ok {
		return s.http
	}
	return http.StatusInternalServerError
}

// GRPCCode is the gRPC code of the kind; unknown kinds are Internal.
func (e *AppError) GRPCCode() codes.Code {
	if s, ok := statuses[e.Kind()]; ok {
		return s.grpc
	}
	return codes.Internal
}

// From finds the AppError in err's chain. Anything else becomes an internal
// error carrying err as its cause.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := as(err); ok {
		return appErr
	}
	return Internal("internal error", WithCause(err))
}

// IsKind reports whether err's chain holds an AppError of kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := as(err)
	return ok && appErr.Kind() == kind
}

func as(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
