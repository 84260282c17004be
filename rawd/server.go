package rawd

import (
	"context"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerParams holds the dependencies for creating the server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *rawhttp.ServeMux
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates a server with all middleware configured. It must be constructed before
// any route is registered on the mux.
func NewServer(params ServerParams) (*rawhttp.Server, error) {
	alert, err := parseAlertCodes(params.Env.AlertStatusCodes)
	if err != nil {
		return nil, err
	}

	// Tracing goes first so the access log carries the trace ids.
	params.Mux.Use(withTracing(params.TracerProv, params.Propagator))
	params.Mux.Use(withAccessLog(alert))

	return &rawhttp.Server{
		Addr:           params.Env.Addr(),
		Router:         params.Mux,
		Logs:           newZapRawLogger(params.Logger),
		Name:           params.Env.ServiceName,
		ReadTimeout:    params.Env.ReadTimeout,
		WriteTimeout:   params.Env.WriteTimeout,
		MaxHeaderBytes: params.Env.MaxHeaderBytes,
		MaxBodyBytes:   params.Env.MaxBodyBytes,
		MaxConns:       params.Env.MaxConns,
		Backlog:        params.Env.Backlog,
		ConnContext:    connContext(params.Logger),
	}, nil
}

// startServerHook binds the listener on start, so a started app accepts connections
// immediately, and shuts the server down on stop.
func startServerHook(lc fx.Lifecycle, server *rawhttp.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := server.Listen()
			if err != nil {
				return err
			}

			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(context.Background(), ln); err != nil &&
					!errors.Is(err, rawhttp.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}
