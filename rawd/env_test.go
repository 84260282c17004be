package rawd_test

import (
	"testing"
	"time"

	"github.com/advdv/rawhttp/rawd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseEnv_Defaults(t *testing.T) {
	for _, name := range []string{
		"RAWHTTP_HOST", "RAWHTTP_PORT", "RAWHTTP_BACKLOG", "RAWHTTP_SERVICE_NAME",
		"RAWHTTP_LOG_LEVEL", "RAWHTTP_READ_TIMEOUT", "RAWHTTP_WRITE_TIMEOUT",
		"RAWHTTP_MAX_HEADER_BYTES", "RAWHTTP_MAX_BODY_BYTES", "RAWHTTP_MAX_CONNS",
		"RAWHTTP_ALERT_STATUS_CODES", "RAWHTTP_OTEL_EXPORTER", "RAWHTTP_STORE",
		"RAWHTTP_ID_SCHEME", "RAWHTTP_DYNAMODB_TABLE",
	} {
		t.Setenv(name, "")
	}

	env, err := rawd.ParseEnv(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", env.Addr())
	assert.Equal(t, 5, env.Backlog)
	assert.Equal(t, "rawhttp", env.ServiceName)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, 30*time.Second, env.ReadTimeout)
	assert.Equal(t, 30*time.Second, env.WriteTimeout)
	assert.Equal(t, 65536, env.MaxHeaderBytes)
	assert.Equal(t, 8388608, env.MaxBodyBytes)
	assert.Equal(t, 0, env.MaxConns)
	assert.Equal(t, "500-599", env.AlertStatusCodes)
	assert.Equal(t, "none", env.OtelExporter)
	assert.Equal(t, "memory", env.Store)
	assert.Equal(t, "sequential", env.IDScheme)
}

func TestParseEnv_OverridesWin(t *testing.T) {
	t.Setenv("RAWHTTP_PORT", "9000")
	t.Setenv("RAWHTTP_LOG_LEVEL", "warn")

	env, err := rawd.ParseEnv(map[string]string{
		"RAWHTTP_PORT": "9100",
		"RAWHTTP_HOST": "0.0.0.0",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9100", env.Addr())
	assert.Equal(t, zapcore.WarnLevel, env.LogLevel)
}

func TestParseEnv_Errors(t *testing.T) {
	for _, tt := range []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"RAWHTTP_PORT": "http"}, "failed to parse environment"},
		{"bad level", map[string]string{"RAWHTTP_LOG_LEVEL": "loud"}, "failed to parse environment"},
		{"bad timeout", map[string]string{"RAWHTTP_READ_TIMEOUT": "soon"}, "failed to parse environment"},
		{
			"dynamodb without table",
			map[string]string{"RAWHTTP_STORE": "dynamodb", "RAWHTTP_DYNAMODB_TABLE": ""},
			"RAWHTTP_DYNAMODB_TABLE is required",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rawd.ParseEnv(tt.vars)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
