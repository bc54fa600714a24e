// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/AashishRichhariya/openleaf/internal/app/system/indexes"
	"github.com/AashishRichhariya/openleaf/internal/app/system/validators"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectDB connects to the configured document backend, and to Redis when
// a redis_url is set even if documents live elsewhere (revalidation uses it).
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema
// and Startup. The context carries coreCfg.DBConnectTimeout.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	if appCfg.RedisURL != "" {
		client, err := connectRedis(ctx, appCfg.RedisURL)
		if err != nil {
			return DBDeps{}, err
		}
		deps.Redis = client
		logger.Info("connected to Redis", zap.String("addr", client.Options().Addr))
	}

	var backend documentstore.Backend
	switch appCfg.StoreBackend {
	case BackendMongo:
		poolCfg := wafflemongo.DefaultPoolConfig()
		if appCfg.MongoMaxPoolSize > 0 {
			poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
		}
		if appCfg.MongoMinPoolSize > 0 {
			poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
		}

		client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
		if err != nil {
			closeRedis(deps, logger)
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		backend = documentstore.NewMongo(deps.MongoDatabase, appCfg.MongoCollection)

		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.String("collection", appCfg.MongoCollection),
			zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
			zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
		)

	case BackendRedis:
		if deps.Redis == nil {
			return DBDeps{}, fmt.Errorf("redis backend selected without redis_url")
		}
		backend = documentstore.NewRedis(deps.Redis, appCfg.RedisKeyPrefix)
		logger.Info("using Redis document backend", zap.String("key_prefix", appCfg.RedisKeyPrefix))

	case BackendDynamoDB:
		client, err := newDynamoClient(ctx, appCfg)
		if err != nil {
			closeRedis(deps, logger)
			return DBDeps{}, err
		}
		deps.Dynamo = client
		backend = documentstore.NewDynamo(client, appCfg.DynamoDBTable)
		logger.Info("using DynamoDB document backend",
			zap.String("region", appCfg.AWSRegion),
			zap.String("table", appCfg.DynamoDBTable),
			zap.Bool("endpoint_override", appCfg.DynamoDBEndpoint != ""),
		)

	case BackendMemory:
		backend = documentstore.NewMemory()
		logger.Warn("using in-memory document backend; documents are lost on restart")

	default:
		closeRedis(deps, logger)
		return DBDeps{}, fmt.Errorf("unknown store backend: %s", appCfg.StoreBackend)
	}

	deps.Documents = documentstore.New(backend, logger)
	return deps, nil
}

// connectRedis parses url, connects and pings.
func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func closeRedis(deps DBDeps, logger *zap.Logger) {
	if deps.Redis == nil {
		return
	}
	if err := deps.Redis.Close(); err != nil {
		logger.Warn("Redis close failed", zap.Error(err))
	}
}

// newDynamoClient builds a DynamoDB client from the default AWS chain,
// with static credentials and an endpoint override when configured.
func newDynamoClient(ctx context.Context, appCfg AppConfig) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(appCfg.AWSRegion),
	}
	if appCfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(appCfg.AWSAccessKeyID, appCfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if appCfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(appCfg.DynamoDBEndpoint)
		}
	}), nil
}

// EnsureSchema prepares the selected backend.
//
// For MongoDB it attaches the JSON-Schema validator and creates the unique
// (slug, version) index. Redis, DynamoDB and memory have no schema to
// create, so the backend is pinged instead to fail fast on a missing table
// or unreachable server.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		if err := deps.Documents.Ping(ctx); err != nil {
			logger.Error("document backend not reachable",
				zap.String("backend", appCfg.StoreBackend),
				zap.Error(err))
			return err
		}
		logger.Info("document backend reachable", zap.String("backend", appCfg.StoreBackend))
		return nil
	}

	db := deps.MongoDatabase

	// Collections and validators first so indexes land on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db, appCfg.MongoCollection); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db, appCfg.MongoCollection); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
