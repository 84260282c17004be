package rawd

import (
	"context"
	"net"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const (
	ctxKeyConnDep ctxKey = iota
)

// connDep holds connection-scoped dependencies available via context.
// App-scoped dependencies (env, store, mux) are injected into Handlers instead.
type connDep struct {
	id     string
	logger *zap.Logger
}

// connContext returns a [rawhttp.Server.ConnContext] that tags every connection with a
// random id and a logger carrying that id and the peer address.
func connContext(logger *zap.Logger) func(context.Context, net.Conn) context.Context {
	return func(ctx context.Context, c net.Conn) context.Context {
		id := uuid.NewString()
		return context.WithValue(ctx, ctxKeyConnDep, &connDep{
			id: id,
			logger: logger.With(
				zap.String("conn_id", id),
				zap.Stringer("remote_addr", c.RemoteAddr()),
			),
		})
	}
}

// WithLogger returns a context that [Log] resolves to logger. The server sets this up for
// every connection; it is exported for calling handlers outside of a server.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyConnDep, &connDep{logger: logger})
}

func connDepFromContext(ctx context.Context) *connDep {
	d, ok := ctx.Value(ctxKeyConnDep).(*connDep)
	if !ok {
		panic("rawd: connDep not found in context; is the server configured with ConnContext?")
	}
	return d
}

// Log returns a connection and trace correlated zap logger from the context.
func Log(ctx context.Context) *zap.Logger {
	d := connDepFromContext(ctx)
	return d.logger.With(traceFields(ctx)...)
}

// ConnID returns the id of the connection serving ctx, or "" outside of a server.
func ConnID(ctx context.Context) string {
	d, _ := ctx.Value(ctxKeyConnDep).(*connDep)
	if d == nil {
		return ""
	}
	return d.id
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// traceFields extracts trace_id and span_id from the context for log correlation.
func traceFields(ctx context.Context) []zap.Field {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	sc := span.SpanContext()
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
