package postgres

import (
	"context"
	"fmt"

	"github.com/ddxlab/ddxbrain/internal/cardrepo/constants"
	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"
	pgClient "github.com/ddxlab/ddxbrain/pkg/databases/postgres"

	"github.com/go-viper/mapstructure/v2"
)

// cardsTableDDL creates the cards table and the source index on first use.
const cardsTableDDL = `
CREATE TABLE IF NOT EXISTS cards (
	id UUID PRIMARY KEY,
	content TEXT NOT NULL,
	kind TEXT NOT NULL,
	source TEXT NOT NULL,
	page INTEGER NOT NULL DEFAULT 0,
	chunk_id INTEGER NOT NULL DEFAULT 0,
	image_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS cards_source_idx ON cards (source)`

// PostgresCardRepository implements CardRepository for PostgreSQL databases.
type PostgresCardRepository struct {
	dbClient *pgClient.PostgresDatabaseClient
}

// NewPostgresCardRepository creates a new PostgreSQL card repository instance.
func NewPostgresCardRepository(dbClient interfaces.DBClient) (interfaces.CardRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	concrete, ok := dbClient.(*pgClient.PostgresDatabaseClient)
	if !ok {
		return nil, fmt.Errorf("dbClient must be a PostgreSQL client")
	}
	return &PostgresCardRepository{dbClient: concrete}, nil
}

// AddCards stores a batch of cards in one transaction and returns their UUIDs in input order.
func (r *PostgresCardRepository) AddCards(ctx context.Context, cards []models.Card) ([]string, error) {
	if len(cards) == 0 {
		return nil, nil
	}

	docs := make([]interfaces.Document, 0, len(cards))
	for _, card := range cards {
		docs = append(docs, map[string]interface{}{
			"content":    card.Content,
			"kind":       card.Kind,
			"source":     card.Source,
			"page":       card.Page,
			"chunk_id":   card.ChunkID,
			"image_path": card.ImagePath,
		})
	}

	insertedIDs, err := r.dbClient.InsertMany(ctx, constants.CardsCollection, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to add cards to PostgreSQL: %w", err)
	}

	ids := make([]string, 0, len(insertedIDs))
	for _, insertedID := range insertedIDs {
		strID, ok := insertedID.(string)
		if !ok {
			return nil, fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
		}
		ids = append(ids, strID)
	}
	return ids, nil
}

// Search returns cards whose content contains the query, case-insensitively.
// The generic filter mechanism cannot express ILIKE, so this uses a repository-owned statement.
func (r *PostgresCardRepository) Search(ctx context.Context, query, source string, limit int) ([]models.Card, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}

	stmt := `SELECT id, content, kind, source, page, chunk_id, image_path
FROM cards WHERE content ILIKE '%' || $1 || '%'`
	args := []interface{}{query}
	if source != "" {
		stmt += ` AND source = $2`
		args = append(args, source)
	}
	stmt += fmt.Sprintf(` ORDER BY source, page, chunk_id LIMIT %d`, limit)

	docs, err := r.dbClient.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards in PostgreSQL: %w", err)
	}

	cards := make([]models.Card, 0, len(docs))
	for _, doc := range docs {
		card, err := decodeCard(doc)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Count returns the total number of stored cards.
func (r *PostgresCardRepository) Count(ctx context.Context) (int64, error) {
	return r.dbClient.Count(ctx, constants.CardsCollection, nil)
}

// EnsureIndices creates the cards table and source index.
func (r *PostgresCardRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.CardsCollection, cardsTableDDL)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresCardRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

// decodeCard converts a row map into a models.Card.
func decodeCard(doc interfaces.Document) (models.Card, error) {
	docMap, ok := doc.(map[string]interface{})
	if !ok {
		return models.Card{}, fmt.Errorf("expected card row to be a map, got %T", doc)
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
		return models.Card{}, fmt.Errorf("failed to decode card row: %w", err)
	}
	return card, nil
}
