package rawdtest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [rawd.Environment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [rawd.Environment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - RAWHTTP_HOST: "127.0.0.1"
//   - RAWHTTP_SERVICE_NAME: "test"
//   - RAWHTTP_LOG_LEVEL: "debug"
//   - RAWHTTP_OTEL_EXPORTER: "none"
//   - RAWHTTP_STORE: "memory"
//   - RAWHTTP_ID_SCHEME: "sequential"
//   - RAWHTTP_READ_TIMEOUT: "5s"
//   - RAWHTTP_WRITE_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	rawdtest.SetBaseEnv(t, 18085).IDScheme("uuid").MaxBodyBytes(16)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("RAWHTTP_HOST", "127.0.0.1")
	t.Setenv("RAWHTTP_PORT", strconv.Itoa(port))
	t.Setenv("RAWHTTP_SERVICE_NAME", "test")
	t.Setenv("RAWHTTP_LOG_LEVEL", "debug")
	t.Setenv("RAWHTTP_OTEL_EXPORTER", "none")
	t.Setenv("RAWHTTP_STORE", "memory")
	t.Setenv("RAWHTTP_ID_SCHEME", "sequential")
	t.Setenv("RAWHTTP_READ_TIMEOUT", "5s")
	t.Setenv("RAWHTTP_WRITE_TIMEOUT", "5s")
	return &Env{t: t}
}

// ServiceName overrides RAWHTTP_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_SERVICE_NAME", name)
	return e
}

// IDScheme overrides RAWHTTP_ID_SCHEME.
func (e *Env) IDScheme(scheme string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_ID_SCHEME", scheme)
	return e
}

// MaxBodyBytes overrides RAWHTTP_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_MAX_BODY_BYTES", strconv.Itoa(n))
	return e
}

// AlertStatusCodes overrides RAWHTTP_ALERT_STATUS_CODES.
func (e *Env) AlertStatusCodes(expr string) *Env {
	e.t.Helper()
	e.t.Setenv("RAWHTTP_ALERT_STATUS_CODES", expr)
	return e
}
