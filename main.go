package main

import (
	"log"

	"github.com/ddxlab/ddxbrain/config"
	"github.com/ddxlab/ddxbrain/internal/app"
)

func main() {
	application, err := app.NewApp(config.CONFIG_PATH)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application stopped: %v", err)
	}
}
