package rawhttp

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
)

// ResponseWriter buffers a handler's response so that an error returned halfway through can
// replace it completely.
type ResponseWriter interface {
	io.Writer
	io.StringWriter
	Header() Header
	WriteHeader(code Code)
	SetContentType(ct string)
	Code() Code
	Reset()
	Free()
}

// Handler serves one parsed request. Returning an [*Error] selects the response code and
// message; any other error is logged and answered with a 500.
type Handler interface {
	ServeRaw(ctx context.Context, w ResponseWriter, r *Request) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, ResponseWriter, *Request) error

// ServeRaw implements the [Handler] interface.
func (f HandlerFunc) ServeRaw(ctx context.Context, w ResponseWriter, r *Request) error {
	return f(ctx, w, r)
}

// Respond runs h against a fresh buffer and converts the outcome into a Response. A panic in
// the handler is treated like a returned error.
func Respond(ctx context.Context, h Handler, r *Request, logs Logger) Response {
	w := NewResponseBuffer()
	defer w.Free()

	err := serveRecovered(ctx, h, w, r)
	if err == nil {
		return w.Response()
	}

	if rawErr, ok := asError(err); ok && rawErr.Code() > CodeUnknown && rawErr.Code() < CodeInternalServerError {
		return TextResponse(rawErr.Code(), rawErr.Message())
	}

	// if all fails we don't want the client to end up with an empty reply so
	// we render a 500 error with the standard text.
	logs.LogUnhandledServeError(err)
	return HTMLResponse(CodeInternalServerError, "The server encountered an unexpected condition.")
}

func serveRecovered(ctx context.Context, h Handler, w ResponseWriter, r *Request) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Newf("rawhttp: handler panicked: %v", v)
		}
	}()

	return h.ServeRaw(ctx, w, r)
}
