package mongo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ddxlab/ddxbrain/internal/cardrepo/constants"
	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"

	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	mongoClient "github.com/ddxlab/ddxbrain/pkg/databases/mongo"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
)

// mongoCard mirrors models.Card with the driver-native ObjectID.
type mongoCard struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	Kind      string             `bson:"kind"`
	Source    string             `bson:"source"`
	Page      int                `bson:"page"`
	ChunkID   int                `bson:"chunk_id"`
	ImagePath string             `bson:"image_path,omitempty"`
}

// MongoCardRepository implements CardRepository using the generic DBClient.
type MongoCardRepository struct {
	dbClient interfaces.DBClient
}

// NewMongoCardRepository creates a new MongoDB card repository instance.
func NewMongoCardRepository(dbClient interfaces.DBClient) (interfaces.CardRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if _, ok := dbClient.(*mongoClient.MongoDBClient); !ok {
		return nil, fmt.Errorf("dbClient must be a MongoDB client")
	}
	return &MongoCardRepository{dbClient: dbClient}, nil
}

// AddCards stores a batch of cards and returns their hex ObjectIDs in input order.
func (r *MongoCardRepository) AddCards(ctx context.Context, cards []models.Card) ([]string, error) {
	if len(cards) == 0 {
		return nil, nil
	}

	docs := make([]interfaces.Document, 0, len(cards))
	for _, card := range cards {
		docs = append(docs, mongoCard{
			ID:        primitive.NewObjectID(),
			Content:   card.Content,
			Kind:      card.Kind,
			Source:    card.Source,
			Page:      card.Page,
			ChunkID:   card.ChunkID,
			ImagePath: card.ImagePath,
		})
	}

	insertedIDs, err := r.dbClient.InsertMany(ctx, constants.CardsCollection, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to add cards to MongoDB: %w", err)
	}

	ids := make([]string, 0, len(insertedIDs))
	for _, insertedID := range insertedIDs {
		objID, ok := insertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("failed to assert inserted ID to ObjectID")
		}
		ids = append(ids, objID.Hex())
	}
	return ids, nil
}

// Search returns cards whose content contains the query, case-insensitively.
// An empty source matches all sources.
func (r *MongoCardRepository) Search(ctx context.Context, query, source string, limit int) ([]models.Card, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}

	filter := bson.M{
		"content": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}
	if source != "" {
		filter["source"] = source
	}

	docs, err := r.dbClient.FindMany(ctx, constants.CardsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards in MongoDB: %w", err)
	}

	cards := make([]models.Card, 0, len(docs))
	for _, doc := range docs {
		if len(cards) >= limit {
			break
		}
		card, err := decodeCard(doc)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Count returns the total number of stored cards.
func (r *MongoCardRepository) Count(ctx context.Context) (int64, error) {
	return r.dbClient.Count(ctx, constants.CardsCollection, nil)
}

// EnsureIndices creates the source index used to narrow searches.
func (r *MongoCardRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys: bson.M{"source": 1},
	}
	return r.dbClient.EnsureSchema(ctx, constants.CardsCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoCardRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

// decodeCard converts a cursor map into a models.Card.
// The driver decodes _id as a primitive.ObjectID, so it is hex-encoded first.
func decodeCard(doc interfaces.Document) (models.Card, error) {
	docMap, ok := doc.(map[string]interface{})
	if !ok {
		return models.Card{}, fmt.Errorf("expected card document to be a map, got %T", doc)
	}

	if objID, ok := docMap["_id"].(primitive.ObjectID); ok {
		docMap["id"] = objID.Hex()
		delete(docMap, "_id")
	}

	var card models.Card
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &card,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return models.Card{}, err
	}
	if err := decoder.Decode(docMap); err != nil {
		return models.Card{}, fmt.Errorf("failed to decode card document: %w", err)
	}
	return card, nil
}
