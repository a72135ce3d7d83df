package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ddxlab/ddxbrain/config"
	"github.com/ddxlab/ddxbrain/internal/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	logger           interfaces.Logger
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
}

// NewMongoDB returns an interface for a db client and an error if it occurs.
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		logger:           logger,
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// It initializes the MongoDB client and sets the database instance.
// The DSN should be in the format "mongodb://<host>:<port>/<database>".
// The function extracts the database name from the DSN and sets it as the active database for the client.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	m.logger.Debug("Connecting to MongoDB", "dsn", dsn)

	// Validate the DSN format
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	// Set a timeout for the connection
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	// Set the server API options if provided
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	// Set the maximum pool size
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)

	// Set read preference to primaryPreferred
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	// Connect to the MongoDB server
	var err error
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Check if the connection is successful by pinging the server
	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: failed to connect to MongoDB server: %v", err)
	}
	m.logger.Info("Connected to MongoDB server")

	// Extract the database name from the DSN
	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: failed to extract database name from datasource name(dsn): %v", err)
	}

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
// It checks if the client is not nil before attempting to disconnect.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	m.logger.Debug("Disconnecting from MongoDB")
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// InsertOne inserts a document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	// Avoid logging document contents, they may hold credentials
	m.logger.Debug("Inserting one document", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	// Sanitize document
	sanitizedDocument := m.sanitizeDocument(document)

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: failed to insert one into %s: %v", collectionName, err)
	}

	return res.InsertedID, nil
}

// InsertMany inserts a batch of documents and returns their IDs in input order.
func (m *MongoDBClient) InsertMany(ctx context.Context, collectionName string, documents []interfaces.Document) ([]interface{}, error) {
	m.logger.Debug("Inserting many documents", "collection", collectionName, "count", len(documents))

	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, nil
	}

	sanitized := make([]interface{}, 0, len(documents))
	for _, doc := range documents {
		sanitized = append(sanitized, m.sanitizeDocument(doc))
	}

	res, err := m.db.Collection(collectionName).InsertMany(ctx, sanitized)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: failed to insert many into %s: %v", collectionName, err)
	}

	return res.InsertedIDs, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// It decodes the result into the provided variable and returns an error if no document is found.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	m.logger.Debug("Finding one document", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	// Filters are repository-built (they may legitimately key on _id) and never
	// carry user-supplied keys, so they are not field-sanitized.
	err := m.db.Collection(collectionName).FindOne(ctx, filter).Decode(result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return mongo.ErrNoDocuments
		}
		return fmt.Errorf("MongoDBClient: failed to find one in %s: %v", collectionName, err)
	}

	return nil
}

// FindMany retrieves multiple documents from the specified collection.
// It returns a slice of matching documents or an error.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document) ([]interfaces.Document, error) {
	m.logger.Debug("Finding many documents", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	// Filters may carry operators ($text, $regex), so they bypass field sanitizing
	// here; repositories own filter construction and never pass user input as keys.
	cursor, err := m.db.Collection(collectionName).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: finding many in %s failed: %v", collectionName, err)
	}

	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Failed to close cursor", "error", err)
		}
	}()

	var results []interfaces.Document
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("MongoDBClient: failed to decode cursor: %v", err)
		}
		results = append(results, doc)
	}

	return results, nil
}

// UpdateOne modifies a single document in the specified collection using a filter and update document.
// Returns the count of modified documents and an error if the operation fails.
func (m *MongoDBClient) UpdateOne(ctx context.Context, collectionName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	m.logger.Debug("Updating one document", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	// Sanitize filter and update
	sanitizedFilter := m.sanitizeDocument(filter)
	sanitizedUpdate := m.sanitizeDocument(update)

	res, err := m.db.Collection(collectionName).UpdateOne(ctx, sanitizedFilter, sanitizedUpdate)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: failed updating one in %s: %v", collectionName, err)
	}

	return res.ModifiedCount, nil
}

// DeleteOne removes a single document from the specified collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteOne(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("Deleting one document", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	// Sanitize filter
	sanitizedFilter := m.sanitizeDocument(filter)

	res, err := m.db.Collection(collectionName).DeleteOne(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: failed deleting one from %s: %v", collectionName, err)
	}

	return res.DeletedCount, nil
}

// DeleteMany removes multiple documents from a collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteMany(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("Deleting many documents", "collection", collectionName)

	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	// Sanitize filter
	sanitizedFilter := m.sanitizeDocument(filter)

	res, err := m.db.Collection(collectionName).DeleteMany(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: failed deleting many from %s: %v", collectionName, err)
	}

	return res.DeletedCount, nil
}

// Count returns the number of documents matching the filter. A nil filter counts all documents.
func (m *MongoDBClient) Count(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	if filter == nil {
		filter = map[string]interface{}{}
	}

	count, err := m.db.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: failed counting documents in %s: %v", collectionName, err)
	}

	return count, nil
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// EnsureSchema creates the required index on the specified collection using the provided mongo.IndexModel.
// If the collection does not exist, it will be created automatically.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	// verify m.db is not nil
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	if schema == nil {
		return fmt.Errorf("EnsureSchema expects schema to be a mongo.IndexModel")
	}

	// Type assertion to mongo.IndexModel
	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}
	// Create the index on the specified collection
	collection := m.db.Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, model)
	return err
}

// checkCollection validates a collection name against the configured allow list.
func (m *MongoDBClient) checkCollection(collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("MongoDBClient: collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: invalid collection name: %s", collectionName)
	}
	return nil
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	// For most cases, the path is just the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// sanitizeDocument ensures that the document does not contain any malicious content.
// It drops the ID field and any key outside the configured field allow list or
// containing characters that could lead to NoSQL injection.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) interfaces.Document {
	// Ensure the document is not nil
	if document == nil {
		return nil
	}

	// Create a sanitized copy of the document
	sanitized := make(map[string]interface{})
	// Assert that document is a map[string]interface{} before iterating
	docMap, ok := document.(map[string]interface{}) // bson.M is a type alias for map[string]interface{}
	if !ok {
		// Typed structs keep their driver tags and are inserted as-is.
		return document
	}

	for key, value := range docMap {
		// Skip the ID field to prevent overwriting or exposing it
		if key == IDFIELD {
			continue
		}

		// Ensure the key is a valid field name and does not contain special characters
		if _, ok := m.validFields[key]; !ok || strings.ContainsAny(key, "$.") {
			m.logger.Warn("Skipping invalid or unsafe field name", "field", key)
			continue
		}

		// Add the sanitized key-value pair to the sanitized document
		sanitized[key] = value
	}

	return sanitized
}
