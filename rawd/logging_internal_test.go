package rawd

import (
	"context"
	"net"
	"testing"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	for _, lvl := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.ErrorLevel} {
		t.Run(lvl.String(), func(t *testing.T) {
			logger, err := NewLogger(Environment{LogLevel: lvl})
			require.NoError(t, err)

			assert.True(t, logger.Core().Enabled(lvl))
			assert.False(t, logger.Core().Enabled(lvl-1))
		})
	}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := newZapRawLogger(zap.New(core))

	for _, tt := range []struct {
		name    string
		log     func(error)
		wantMsg string
		wantLvl zapcore.Level
	}{
		{"unhandled serve error", logger.LogUnhandledServeError, "unhandled server error", zapcore.ErrorLevel},
		{"read error", logger.LogReadError, "error while reading request", zapcore.WarnLevel},
		{"write error", logger.LogWriteError, "error while writing response", zapcore.WarnLevel},
		{"accept error", logger.LogAcceptError, "error while accepting connection", zapcore.ErrorLevel},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt.log(errors.New("boom"))

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLvl, entries[0].Level)
			assert.Equal(t, "rawhttp.rawd", entries[0].LoggerName)
			assert.Equal(t, "boom", entries[0].ContextMap()["error"])
		})
	}
}

func TestZapLoggerRejected(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	newZapRawLogger(zap.New(core)).LogRejected(rawhttp.CodeNotFound, errors.New("no route for GET /x"))

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "request rejected", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.EqualValues(t, 404, entries[0].ContextMap()["status"])
	assert.Equal(t, "no route for GET /x", entries[0].ContextMap()["error"])
}

func TestConnContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	ctx := connContext(zap.New(core))(context.Background(), server)
	require.Len(t, ConnID(ctx), 36)

	Log(ctx).Info("hello")

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, ConnID(ctx), entries[0].ContextMap()["conn_id"])
	assert.Equal(t, "pipe", entries[0].ContextMap()["remote_addr"])

	other := connContext(zap.New(core))(context.Background(), server)
	assert.NotEqual(t, ConnID(ctx), ConnID(other))
}

func TestLogWithoutConnection(t *testing.T) {
	assert.Empty(t, ConnID(context.Background()))
	assert.Panics(t, func() { Log(context.Background()) })

	core, logs := observer.New(zapcore.InfoLevel)
	Log(WithLogger(context.Background(), zap.New(core))).Info("direct")
	assert.Equal(t, 1, logs.Len())
}
