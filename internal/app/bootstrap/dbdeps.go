// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// ConnectDB fills in the clients the configured backend needs; the others
// stay nil. Documents is always set and is what the rest of the app uses.
// Shutdown closes whatever is non-nil.
type DBDeps struct {
	// MongoDB client and database (mongo backend only)
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis client (redis backend, or revalidation pub/sub when redis_url is set)
	Redis *redis.Client

	// DynamoDB client (dynamodb backend only)
	Dynamo *dynamodb.Client

	// Documents is the document store over the selected backend.
	Documents *documentstore.Store
}
