package rawdtest

import (
	"context"
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/advdv/rawhttp/rawd"
	"go.uber.org/zap/zaptest"
)

// CallHandler runs a [rawhttp.HandlerFunc] the way the server does and returns the
// response that would be written. The context carries a test logger, so handlers may
// call [rawd.Log]. Unhandled errors are reported through [rawhttp.TestLogger].
func CallHandler(t testing.TB, handler rawhttp.HandlerFunc, req *rawhttp.Request) rawhttp.Response {
	t.Helper()

	ctx := rawd.WithLogger(context.Background(), zaptest.NewLogger(t))
	return rawhttp.Respond(ctx, handler, req, rawhttp.NewTestLogger(t))
}

// ParseRequest parses raw request bytes and fails the test when they are malformed.
func ParseRequest(t testing.TB, raw string) *rawhttp.Request {
	t.Helper()

	req, err := rawhttp.ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("rawdtest: parse request: %v", err)
	}
	return req
}
