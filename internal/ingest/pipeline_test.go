package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ddxlab/ddxbrain/internal/interfaces/mocks"
	"github.com/ddxlab/ddxbrain/internal/models"
	"github.com/ddxlab/ddxbrain/pkg/zerolog"

	"github.com/stretchr/testify/mock"
)

func writeTestDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write dump: %v", err)
	}
	return path
}

func writeTestImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestPipeline_Run_TextOnly(t *testing.T) {
	sourcePath := writeTestDump(t, "page one content\fpage two content")
	logger := zerolog.NewZerologLogger("ingest-test")

	cardRepo := mocks.NewMockCardRepository(t)
	var batches [][]models.Card
	cardRepo.On("AddCards", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			batches = append(batches, args.Get(1).([]models.Card))
		}).
		Return([]string{}, nil)

	splitter := NewRecursiveCharacterSplitter(1000, 200)
	pipeline := NewPipeline(cardRepo, splitter, nil, logger, 1)

	stored, err := pipeline.Run(context.Background(), sourcePath, "Oxford Handbook", "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stored != 2 {
		t.Errorf("Run() stored = %d, want 2", stored)
	}

	// Batch size 1 means one repository call per card.
	cardRepo.AssertNumberOfCalls(t, "AddCards", 2)
	for i, batch := range batches {
		if len(batch) != 1 {
			t.Errorf("batch %d has %d cards, want 1", i, len(batch))
			continue
		}
		card := batch[0]
		if card.Kind != models.CardKindText {
			t.Errorf("batch %d: got kind %q, want %q", i, card.Kind, models.CardKindText)
		}
		if card.Source != "Oxford Handbook" {
			t.Errorf("batch %d: got source %q", i, card.Source)
		}
		if card.Page != i+1 {
			t.Errorf("batch %d: got page %d, want %d", i, card.Page, i+1)
		}
	}
}

func TestPipeline_Run_WithImages(t *testing.T) {
	sourcePath := writeTestDump(t, "page one content")
	imageDir := writeTestImages(t, "page_1_img_0.png", "page_2_img_0.png")
	logger := zerolog.NewZerologLogger("ingest-test")

	cardRepo := mocks.NewMockCardRepository(t)
	var allCards []models.Card
	cardRepo.On("AddCards", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			allCards = append(allCards, args.Get(1).([]models.Card)...)
		}).
		Return([]string{}, nil)

	// One figure captions cleanly, one fails and must be skipped.
	describer := mocks.NewMockDescriber(t)
	describer.On("Describe", mock.Anything, filepath.Join(imageDir, "page_1_img_0.png")).
		Return("An ECG showing ST elevation", nil)
	describer.On("Describe", mock.Anything, filepath.Join(imageDir, "page_2_img_0.png")).
		Return("", errors.New("model unavailable"))

	splitter := NewRecursiveCharacterSplitter(1000, 200)
	pipeline := NewPipeline(cardRepo, splitter, describer, logger, 100)

	stored, err := pipeline.Run(context.Background(), sourcePath, "Oxford Handbook", imageDir)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stored != 2 {
		t.Errorf("Run() stored = %d, want 2 (one text card, one image card)", stored)
	}

	var imageCards []models.Card
	for _, card := range allCards {
		if card.Kind == models.CardKindImage {
			imageCards = append(imageCards, card)
		}
	}
	if len(imageCards) != 1 {
		t.Fatalf("got %d image cards, want 1", len(imageCards))
	}
	if imageCards[0].Content != "An ECG showing ST elevation" {
		t.Errorf("got caption %q", imageCards[0].Content)
	}
	if imageCards[0].Page != 1 {
		t.Errorf("got page %d, want 1", imageCards[0].Page)
	}
}

func TestPipeline_Run_StoreError(t *testing.T) {
	sourcePath := writeTestDump(t, "page one content")
	logger := zerolog.NewZerologLogger("ingest-test")

	cardRepo := mocks.NewMockCardRepository(t)
	cardRepo.On("AddCards", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection lost"))

	splitter := NewRecursiveCharacterSplitter(1000, 200)
	pipeline := NewPipeline(cardRepo, splitter, nil, logger, 100)

	stored, err := pipeline.Run(context.Background(), sourcePath, "Oxford Handbook", "")
	if err == nil {
		t.Fatal("expected an error when the repository fails")
	}
	if stored != 0 {
		t.Errorf("Run() stored = %d, want 0", stored)
	}
}

func TestPipeline_Run_MissingSource(t *testing.T) {
	logger := zerolog.NewZerologLogger("ingest-test")
	cardRepo := mocks.NewMockCardRepository(t)

	pipeline := NewPipeline(cardRepo, NewRecursiveCharacterSplitter(1000, 200), nil, logger, 100)

	if _, err := pipeline.Run(context.Background(),
		filepath.Join(t.TempDir(), "nope.txt"), "Oxford Handbook", ""); err == nil {
		t.Fatal("expected an error for a missing source dump")
	}
}
