package rawd

import (
	"context"

	"github.com/advdv/rawhttp/store"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	storeMemory   = "memory"
	storeDynamoDB = "dynamodb"
)

// StoreParams holds the dependencies for selecting a store.
type StoreParams struct {
	fx.In

	Env        Environment
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewStore selects the store named by RAWHTTP_STORE. The AWS configuration is only loaded
// for the dynamodb store.
func NewStore(ctx context.Context, p StoreParams) (store.Store, error) {
	switch p.Env.Store {
	case storeMemory, "":
		ids, err := store.NewIDFunc(p.Env.IDScheme)
		if err != nil {
			return nil, err
		}

		p.Logger.Info("using memory store", zap.String("id_scheme", p.Env.IDScheme))
		return store.NewMemory(store.WithIDFunc(ids)), nil
	case storeDynamoDB:
		cfg, err := NewAWSConfig(ctx, p.Env, p.TracerProv, p.Propagator)
		if err != nil {
			return nil, err
		}

		p.Logger.Info("using dynamodb store", zap.String("table", p.Env.DynamoDBTable))
		return store.NewDynamo(dynamodb.NewFromConfig(cfg), p.Env.DynamoDBTable), nil
	default:
		return nil, errors.Newf("unsupported RAWHTTP_STORE: %q (supported: memory, dynamodb)", p.Env.Store)
	}
}
