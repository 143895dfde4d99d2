package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/purchasehub/pkg/errorbank"
)

// Builder helps construct consistent HTTP responses. Successful responses carry
// the document itself; failures carry {"message"} and, for server errors in
// debug mode, the underlying "error".
type Builder struct {
	ctx    echo.Context
	status int
	data   any
	err    error
}

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.buildError()
	}
	return b.buildSuccess()
}

func (b *Builder) buildSuccess() error {
	if b.status == http.StatusNoContent || (b.data == nil && b.status != http.StatusOK) {
		return b.ctx.NoContent(b.status)
	}
	return b.ctx.JSON(b.status, b.data)
}

func (b *Builder) buildError() error {
	appErr := errorbank.From(b.err)
	status := b.status
	if status < 400 {
		status = appErr.StatusCode()
	}
	return b.ctx.JSON(status, Error(appErr, status, b.ctx.Echo().Debug))
}

// Error renders err as an ErrorBody. The cause is exposed only for 5xx
// statuses when debug is set.
func Error(err error, status int, debug bool) ErrorBody {
	appErr := errorbank.From(err)
	body := ErrorBody{Message: appErr.Message()}
	if status >= http.StatusInternalServerError && debug {
		if cause := errors.Unwrap(appErr); cause != nil {
			body.Error = cause.Error()
		} else {
			body.Error = appErr.Error()
		}
	}
	return body
}
