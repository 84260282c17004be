// Package rawdtest provides test helpers for rawd applications.
//
// It constructs the identical DI graph as [rawd.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	rawdtest.SetBaseEnv(t, 18081)
//	app := rawdtest.New(t, rawd.WithStore(store.NewMemory()))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package rawdtest

import (
	"testing"

	"github.com/advdv/rawhttp/rawd"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing rawd applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [rawd.NewApp].
func New(t testing.TB, opts ...rawd.Option) *App {
	return &App{App: fxtest.New(t, rawd.FxOptions(opts...)...)}
}
