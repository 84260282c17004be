package rawd

import (
	"context"
	"time"

	iie "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const tracerName = "github.com/advdv/rawhttp/rawd"

var _ propagation.TextMapCarrier = rawhttp.Header{}

// parseAlertCodes parses an interval expression such as "500-599" or "404,500-".
func parseAlertCodes(s string) (iie.Expression, error) {
	expr, err := iie.ParseExpression(s)
	if err != nil {
		return expr, errors.Wrapf(err, "invalid RAWHTTP_ALERT_STATUS_CODES %q", s)
	}
	return expr, nil
}

// statusOf is the code the client will see for a handler outcome.
func statusOf(w rawhttp.ResponseWriter, err error) rawhttp.Code {
	if err == nil {
		return w.Code()
	}

	code := rawhttp.CodeOf(err)
	if code == rawhttp.CodeUnknown || code >= rawhttp.CodeInternalServerError {
		return rawhttp.CodeInternalServerError
	}
	return code
}

// withAccessLog logs one line per handled request. Codes matched by alert are logged at
// error level, everything else at info.
func withAccessLog(alert iie.Expression) rawhttp.Middleware {
	return func(next rawhttp.Handler) rawhttp.Handler {
		return rawhttp.HandlerFunc(func(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
			start := time.Now()
			err := next.ServeRaw(ctx, w, r)
			code := statusOf(w, err)

			lvl := zapcore.InfoLevel
			if alert.Matches(int(code)) {
				lvl = zapcore.ErrorLevel
			}

			fields := []zap.Field{
				zap.String("method", string(r.Method)),
				zap.String("path", r.Path),
				zap.Int("status", int(code)),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			Log(ctx).Log(lvl, "request", fields...)
			return err
		})
	}
}

// withTracing starts a server span per request, continuing any trace the client propagated
// in the request headers. The TracerProvider and Propagator are explicitly injected to avoid
// global state.
func withTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) rawhttp.Middleware {
	tracer := tp.Tracer(tracerName)

	return func(next rawhttp.Handler) rawhttp.Handler {
		return rawhttp.HandlerFunc(func(ctx context.Context, w rawhttp.ResponseWriter, r *rawhttp.Request) error {
			ctx = prop.Extract(ctx, r.Header)
			ctx, span := tracer.Start(ctx, string(r.Method)+" "+r.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(string(r.Method)),
					semconv.URLPath(r.Path),
					semconv.ClientAddress(r.RemoteAddr),
				))
			defer span.End()

			err := next.ServeRaw(ctx, w, r)
			code := statusOf(w, err)

			span.SetAttributes(semconv.HTTPResponseStatusCode(int(code)))
			if err != nil {
				span.RecordError(err)
			}
			if code >= rawhttp.CodeInternalServerError {
				span.SetStatus(codes.Error, code.ReasonPhrase())
			}

			return err
		})
	}
}
