// Seeds the bill corpus from a JSON file. Each entry matches the ingest
// request shape; chunks are embedded through the configured provider, so
// seeding needs the same credentials as the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"bill-research-be/internal/config"
	"bill-research-be/internal/dto"
	"bill-research-be/internal/repository/unitofwork"
	"bill-research-be/internal/service"
	"bill-research-be/pkg/database"
	"bill-research-be/pkg/embedding"
)

func main() {
	inputPath := flag.String("input", "seed/bills.json", "path to the bills JSON file")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
	}

	ingestService := service.NewIngestService(unitofwork.NewRepositoryFactory(db), embeddingProvider)

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *inputPath, err)
	}

	var bills []dto.IngestBillRequest
	if err := json.Unmarshal(raw, &bills); err != nil {
		log.Fatalf("Failed to parse %s: %v", *inputPath, err)
	}

	ctx := context.Background()
	var ok, failed int
	for i := range bills {
		res, err := ingestService.IngestBill(ctx, &bills[i])
		if err != nil {
			log.Printf("[WARN] Skipping %s: %v", bills[i].Identifier, err)
			failed++
			continue
		}
		log.Printf("Ingested %s (%d chunks)", res.Identifier, res.ChunkCount)
		ok++
	}

	log.Printf("Seed complete: %d ingested, %d skipped", ok, failed)
}
