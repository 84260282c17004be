package rawhttp

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogReadError(err error)
	LogWriteError(err error)
	LogAcceptError(err error)
	// LogRejected reports a request answered before any handler ran: a 400 for a malformed
	// request or a 404 for a route miss.
	LogRejected(code Code, err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("rawhttp: unhandled server error: %s", err)
}

func (l stdLogger) LogReadError(err error) {
	l.Logger.Printf("rawhttp: error while reading request: %s", err)
}

func (l stdLogger) LogWriteError(err error) {
	l.Logger.Printf("rawhttp: error while writing response: %s", err)
}

func (l stdLogger) LogAcceptError(err error) {
	l.Logger.Printf("rawhttp: error while accepting connection: %s", err)
}

func (l stdLogger) LogRejected(code Code, err error) {
	l.Logger.Printf("rawhttp: request rejected with %d: %s", code, err)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogReadError           int64
	NumLogWriteError          int64
	NumLogAcceptError         int64
	NumLogRejected            int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("rawhttp: unhandled server error: %s", err)
}

func (l *TestLogger) LogReadError(err error) {
	atomic.AddInt64(&l.NumLogReadError, 1)
	l.tb.Logf("rawhttp: error while reading request: %s", err)
}

func (l *TestLogger) LogWriteError(err error) {
	atomic.AddInt64(&l.NumLogWriteError, 1)
	l.tb.Logf("rawhttp: error while writing response: %s", err)
}

func (l *TestLogger) LogAcceptError(err error) {
	atomic.AddInt64(&l.NumLogAcceptError, 1)
	l.tb.Logf("rawhttp: error while accepting connection: %s", err)
}

func (l *TestLogger) LogRejected(code Code, err error) {
	atomic.AddInt64(&l.NumLogRejected, 1)
	l.tb.Logf("rawhttp: request rejected with %d: %s", code, err)
}

var _ Logger = &TestLogger{}
