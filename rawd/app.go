package rawd

import (
	"context"
	"maps"

	"github.com/advdv/rawhttp"
	"github.com/advdv/rawhttp/store"
	"go.uber.org/fx"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	EnvOverrides map[string]string
	Store        store.Store
	FxOptions    []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options for dependency injection.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithEnvOverrides sets environment variables that take precedence over the process
// environment, e.g. from command line flags.
func WithEnvOverrides(vars map[string]string) Option {
	return func(c *AppConfig) {
		if c.EnvOverrides == nil {
			c.EnvOverrides = make(map[string]string, len(vars))
		}
		maps.Copy(c.EnvOverrides, vars)
	}
}

// WithStore uses s instead of the store selected by RAWHTTP_STORE.
func WithStore(s store.Store) Option {
	return func(c *AppConfig) {
		c.Store = s
	}
}

// FxOptions returns the options of the app's dependency graph. [NewApp] and the rawdtest
// package both build on it.
func FxOptions(opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	provideStore := fx.Provide(func(p StoreParams) (store.Store, error) {
		return NewStore(context.Background(), p)
	})
	if cfg.Store != nil {
		provideStore = fx.Provide(func() store.Store { return cfg.Store })
	}

	baseOpts := make([]fx.Option, 0, 11+len(cfg.FxOptions))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Provide(func() (Environment, error) { return ParseEnv(cfg.EnvOverrides) }),
		fx.Provide(rawhttp.NewServeMux),
		fx.Provide(NewLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		provideStore,
		fx.Provide(NewHandlers),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
		fx.Invoke(Routes),
	}...)

	return append(baseOpts, cfg.FxOptions...)
}

// NewApp creates the daemon: environment, logging, tracing, store, handlers and the
// server, started and stopped with the app.
//
// Example:
//
//	rawd.NewApp(rawd.WithEnvOverrides(map[string]string{"RAWHTTP_PORT": "9000"})).Run()
func NewApp(opts ...Option) *App {
	return &App{app: fx.New(FxOptions(opts...)...)}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the application with the given context and stops it when ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}

// Err reports a construction error, e.g. an invalid environment.
func (a *App) Err() error {
	return a.app.Err()
}
