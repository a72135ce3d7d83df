package ingest

import (
	"context"

	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/models"
)

// BuildTextCards splits every page into chunks and wraps each chunk in a card.
// Chunk indices restart on every page so a card cites "source, page, chunk".
func BuildTextCards(pages []Page, splitter *RecursiveCharacterSplitter) []models.Card {
	var cards []models.Card
	for _, page := range pages {
		chunks := splitter.Split(page.Content)
		for i, chunk := range chunks {
			cards = append(cards, *models.NewTextCard(chunk, page.Source, page.Number, i))
		}
	}
	return cards
}

// BuildImageCards captions every figure through the describer and wraps each
// caption in a card. A figure that fails to caption is logged and skipped so
// one bad image does not abort the build.
func BuildImageCards(ctx context.Context, imagePaths []string, describer interfaces.Describer,
	source string, logger interfaces.Logger,
) []models.Card {
	var cards []models.Card
	for _, imagePath := range imagePaths {
		caption, err := describer.Describe(ctx, imagePath)
		if err != nil {
			logger.Warn("Skipping image that failed to caption", "image", imagePath, "error", err)
			continue
		}

		page := PageFromImageName(imagePath)
		cards = append(cards, *models.NewImageCard(caption, source, imagePath, page))
		logger.Debug("Captioned image", "image", imagePath, "page", page)
	}
	return cards
}
