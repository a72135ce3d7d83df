package interfaces

import (
	"context"

	"github.com/ddxlab/ddxbrain/internal/models"
)

// CardRepository defines the contract for the knowledge-base card store.
type CardRepository interface {
	// AddCards stores a batch of cards and returns their assigned IDs.
	AddCards(ctx context.Context, cards []models.Card) ([]string, error)
	// Search returns cards whose content matches the query keywords.
	// An empty source matches all sources. limit <= 0 applies the repository default.
	Search(ctx context.Context, query, source string, limit int) ([]models.Card, error)
	// Count returns the total number of stored cards.
	Count(ctx context.Context) (int64, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
