// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/system/normalize"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slugalloc"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "OPENLEAF"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, mongo_uri, etc.
//   - Environment variables: OPENLEAF_STORE_BACKEND, OPENLEAF_MONGO_URI, etc.
//   - Command-line flags: --store_backend, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Document backend: 'mongo', 'redis', 'dynamodb' or 'memory'"},

	// MongoDB configuration
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "openleaf", Desc: "MongoDB database name"},
	{Name: "mongo_collection", Default: "documents", Desc: "MongoDB collection holding documents"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Redis configuration
	{Name: "redis_url", Default: "", Desc: "Redis URL (e.g., redis://localhost:6379/0); empty disables Redis"},
	{Name: "redis_key_prefix", Default: "openleaf:doc:", Desc: "Key prefix for documents stored in Redis"},
	{Name: "revalidate_channel", Default: "openleaf:revalidate", Desc: "Redis pub/sub channel for page revalidation"},

	// DynamoDB configuration
	{Name: "aws_region", Default: "ap-south-1", Desc: "AWS region for DynamoDB"},
	{Name: "aws_access_key_id", Default: "", Desc: "AWS access key ID (blank uses the default credential chain)"},
	{Name: "aws_secret_access_key", Default: "", Desc: "AWS secret access key"},
	{Name: "dynamodb_table", Default: "documents", Desc: "DynamoDB table name"},
	{Name: "dynamodb_endpoint", Default: "", Desc: "DynamoDB endpoint override (e.g., http://localhost:8000)"},

	{Name: "slug_max_attempts", Default: slugalloc.DefaultMaxAttempts, Desc: "Slug candidates probed before giving up"},

	// Page cache
	{Name: "page_cache_ttl", Default: "5m", Desc: "Rendered page cache lifetime (0 disables)"},
	{Name: "page_cache_sweep", Default: "1m", Desc: "Interval for evicting expired page snapshots"},

	{Name: "store_watch_interval", Default: "30s", Desc: "Interval for background backend health pings"},

	{Name: "cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (empty allows any)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, OPENLEAF_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: normalize.Backend(appValues.String("store_backend")),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoCollection:  appValues.String("mongo_collection"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisURL:          appValues.String("redis_url"),
		RedisKeyPrefix:    appValues.String("redis_key_prefix"),
		RevalidateChannel: appValues.String("revalidate_channel"),

		AWSRegion:          appValues.String("aws_region"),
		AWSAccessKeyID:     appValues.String("aws_access_key_id"),
		AWSSecretAccessKey: appValues.String("aws_secret_access_key"),
		DynamoDBTable:      appValues.String("dynamodb_table"),
		DynamoDBEndpoint:   appValues.String("dynamodb_endpoint"),

		SlugMaxAttempts: appValues.Int("slug_max_attempts"),

		PageCacheTTL:   appValues.Duration("page_cache_ttl", 5*time.Minute),
		PageCacheSweep: appValues.Duration("page_cache_sweep", time.Minute),

		StoreWatchInterval: appValues.Duration("store_watch_interval", 30*time.Second),

		CORSOrigins: appValues.String("cors_origins"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}

// validateAppConfig checks AppConfig on its own so it can be tested without
// a logger or core config.
func validateAppConfig(appCfg AppConfig) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return errors.New("mongo_database is required for the mongo backend")
		}
	case BackendRedis:
		if appCfg.RedisURL == "" {
			return errors.New("redis_url is required for the redis backend")
		}
	case BackendDynamoDB:
		if appCfg.DynamoDBTable == "" {
			return errors.New("dynamodb_table is required for the dynamodb backend")
		}
		if (appCfg.AWSAccessKeyID == "") != (appCfg.AWSSecretAccessKey == "") {
			return errors.New("aws_access_key_id and aws_secret_access_key must be set together")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
	}

	if appCfg.SlugMaxAttempts < 1 {
		return fmt.Errorf("slug_max_attempts must be at least 1, got %d", appCfg.SlugMaxAttempts)
	}
	if appCfg.PageCacheTTL > 0 && appCfg.PageCacheSweep <= 0 {
		return errors.New("page_cache_sweep must be positive when page caching is enabled")
	}
	return nil
}
