package ingest

import (
	"context"
	"fmt"

	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"
)

const (
	// DefaultBatchSize is how many cards are stored per repository call.
	DefaultBatchSize = 100
)

// Pipeline runs the offline knowledge-base build: extract handbook pages,
// chunk them into text cards, caption figures into image cards, and store
// everything in batches through the card repository.
type Pipeline struct {
	Cards     interfaces.CardRepository
	Splitter  *RecursiveCharacterSplitter
	Describer interfaces.Describer // nil disables image cards
	Logger    interfaces.Logger
	BatchSize int
}

// NewPipeline creates a build pipeline. A nil describer disables image cards;
// a non-positive batch size falls back to the default.
func NewPipeline(cards interfaces.CardRepository, splitter *RecursiveCharacterSplitter,
	describer interfaces.Describer, logger interfaces.Logger, batchSize int,
) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		Cards:     cards,
		Splitter:  splitter,
		Describer: describer,
		Logger:    logger,
		BatchSize: batchSize,
	}
}

// Run executes the full build and returns the total number of cards stored.
func (p *Pipeline) Run(ctx context.Context, sourcePath, sourceName, imageDir string) (int, error) {
	stored := 0

	pages, err := ExtractPages(sourcePath, sourceName)
	if err != nil {
		return 0, fmt.Errorf("failed to extract pages: %w", err)
	}
	p.Logger.Info("Extracted pages from source dump", "source", sourceName, "pages", len(pages))

	textCards := BuildTextCards(pages, p.Splitter)
	p.Logger.Info("Built text cards", "cards", len(textCards))

	n, err := p.storeBatches(ctx, textCards)
	stored += n
	if err != nil {
		return stored, fmt.Errorf("failed to store text cards: %w", err)
	}

	if p.Describer == nil || imageDir == "" {
		p.Logger.Info("Image captioning disabled, skipping image cards")
		return stored, nil
	}

	imagePaths, err := ListImages(imageDir)
	if err != nil {
		return stored, fmt.Errorf("failed to list images: %w", err)
	}
	p.Logger.Info("Found extracted figures", "dir", imageDir, "images", len(imagePaths))

	imageCards := BuildImageCards(ctx, imagePaths, p.Describer, sourceName, p.Logger)
	p.Logger.Info("Built image cards", "cards", len(imageCards))

	n, err = p.storeBatches(ctx, imageCards)
	stored += n
	if err != nil {
		return stored, fmt.Errorf("failed to store image cards: %w", err)
	}

	return stored, nil
}

// storeBatches writes cards through the repository in batches and returns how
// many were stored before any error.
func (p *Pipeline) storeBatches(ctx context.Context, cards []models.Card) (int, error) {
	stored := 0
	for start := 0; start < len(cards); start += p.BatchSize {
		end := start + p.BatchSize
		if end > len(cards) {
			end = len(cards)
		}

		batch := cards[start:end]
		if _, err := p.Cards.AddCards(ctx, batch); err != nil {
			return stored, err
		}
		stored += len(batch)
		p.Logger.Debug("Stored card batch", "batch_start", start, "batch_size", len(batch))
	}
	return stored, nil
}
