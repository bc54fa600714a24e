// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Document backends selectable with store_backend.
const (
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, timeouts); AppConfig
// covers where documents live and how pages are cached.
type AppConfig struct {
	// StoreBackend selects the document backend: mongo, redis, dynamodb or memory.
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoCollection  string // Collection holding documents (default: documents)
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Redis: document backend when StoreBackend is redis, and cross-instance
	// revalidation whenever set.
	RedisURL          string // e.g., redis://localhost:6379/0 (empty disables Redis)
	RedisKeyPrefix    string // Document key prefix (default: openleaf:doc:)
	RevalidateChannel string // Pub/sub channel for revalidation (default: openleaf:revalidate)

	// DynamoDB configuration (only used if StoreBackend is dynamodb)
	AWSRegion          string // AWS region (default: ap-south-1)
	AWSAccessKeyID     string // Static credentials; blank uses the default AWS chain
	AWSSecretAccessKey string
	DynamoDBTable      string // Table keyed by slug (S) and version (N)
	DynamoDBEndpoint   string // Endpoint override (e.g., http://localhost:8000 for DynamoDB Local)

	// Slug allocation
	SlugMaxAttempts int // Candidates probed before giving up (default: 20)

	// Page snapshots
	PageCacheTTL   time.Duration // How long a rendered page is served from cache (0 disables)
	PageCacheSweep time.Duration // How often expired snapshots are evicted

	// StoreWatchInterval is how often the background job pings the backend.
	StoreWatchInterval time.Duration

	// CORSOrigins restricts the document API to these origins (comma-separated).
	// Empty or "*" allows any origin.
	CORSOrigins string
}
