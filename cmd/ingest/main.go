package main

import (
	"context"
	"flag"
	"log"

	"github.com/ddxlab/ddxbrain/config"
	"github.com/ddxlab/ddxbrain/internal/app"
	"github.com/ddxlab/ddxbrain/internal/ingest"
	"github.com/ddxlab/ddxbrain/internal/interfaces"
	"github.com/ddxlab/ddxbrain/internal/vision"
	"github.com/ddxlab/ddxbrain/pkg/zerolog"
)

// ingest reads an extracted handbook dump, chunks it into cards, captions any
// extracted figures, and stores everything in the configured card store.
func main() {
	configPath := flag.String("config", config.CONFIG_PATH, "path to the service configuration file")
	flag.Parse()

	cfg, err := config.ReadLocalConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to read configuration: %v", err)
	}

	logger := zerolog.NewZerologLogger(cfg.ServiceName + "-ingest")
	logger.SetLevel(cfg.LogLevel)

	dbClient, err := app.InitializeDBClient(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize database client: %v", err)
	}
	defer func() {
		if err := dbClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect database client", "error", err)
		}
	}()

	cardRepo, err := app.InitializeCardRepo(cfg, dbClient)
	if err != nil {
		log.Fatalf("failed to initialize card repository: %v", err)
	}

	splitter := ingest.NewRecursiveCharacterSplitter(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)

	var describer interfaces.Describer
	if cfg.Ingest.DescriberURL != "" {
		describer = vision.NewHTTPDescriber(cfg.Ingest.DescriberURL, logger)
	} else {
		logger.Info("no describer endpoint configured, skipping image cards")
	}

	pipeline := ingest.NewPipeline(cardRepo, splitter, describer, logger, cfg.Ingest.BatchSize)

	stored, err := pipeline.Run(context.Background(),
		cfg.Ingest.SourcePath, cfg.Ingest.SourceName, cfg.Ingest.ImageDir)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	total, err := cardRepo.Count(context.Background())
	if err != nil {
		logger.Error("failed to count stored cards", "error", err)
		total = -1
	}

	logger.Info("ingest complete", "stored", stored, "total_cards", total)
}
