package rawd

import (
	"maps"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment holds the daemon configuration, read from RAWHTTP_* variables.
type Environment struct {
	Host    string `env:"RAWHTTP_HOST" envDefault:"127.0.0.1"`
	Port    int    `env:"RAWHTTP_PORT" envDefault:"8080"`
	Backlog int    `env:"RAWHTTP_BACKLOG" envDefault:"5"`

	ServiceName string        `env:"RAWHTTP_SERVICE_NAME" envDefault:"rawhttp"`
	LogLevel    zapcore.Level `env:"RAWHTTP_LOG_LEVEL" envDefault:"info"`

	ReadTimeout    time.Duration `env:"RAWHTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout   time.Duration `env:"RAWHTTP_WRITE_TIMEOUT" envDefault:"30s"`
	MaxHeaderBytes int           `env:"RAWHTTP_MAX_HEADER_BYTES" envDefault:"65536"`
	MaxBodyBytes   int           `env:"RAWHTTP_MAX_BODY_BYTES" envDefault:"8388608"`
	MaxConns       int           `env:"RAWHTTP_MAX_CONNS" envDefault:"0"`

	// AlertStatusCodes selects the status codes that are access-logged at error level,
	// e.g. "500-599" or "404,500-".
	AlertStatusCodes string `env:"RAWHTTP_ALERT_STATUS_CODES" envDefault:"500-599"`
	OtelExporter     string `env:"RAWHTTP_OTEL_EXPORTER" envDefault:"none"`

	Store         string `env:"RAWHTTP_STORE" envDefault:"memory"`
	IDScheme      string `env:"RAWHTTP_ID_SCHEME" envDefault:"sequential"`
	DynamoDBTable string `env:"RAWHTTP_DYNAMODB_TABLE"`
	AWSRegion     string `env:"AWS_REGION"`
}

// Addr is the host:port the server binds.
func (e Environment) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseEnv reads the environment from the process, with overrides taking precedence over
// the process variables of the same name.
func ParseEnv(overrides map[string]string) (Environment, error) {
	vars := env.ToMap(os.Environ())
	maps.Copy(vars, overrides)

	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}

	if e.Store == storeDynamoDB && e.DynamoDBTable == "" {
		return e, errors.New("RAWHTTP_DYNAMODB_TABLE is required when RAWHTTP_STORE is \"dynamodb\"")
	}

	return e, nil
}
