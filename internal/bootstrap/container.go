package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"bill-research-be/internal/config"
	"bill-research-be/internal/controller"
	"bill-research-be/internal/pkg/logger"
	"bill-research-be/internal/repository/unitofwork"
	"bill-research-be/internal/service"
	"bill-research-be/pkg/embedding"
	"bill-research-be/pkg/llm/factory"
	"bill-research-be/pkg/research/executor"
	"bill-research-be/pkg/research/filters"
	"bill-research-be/pkg/research/grading"
	"bill-research-be/pkg/research/query"
	"bill-research-be/pkg/research/reconstruct"
	"bill-research-be/pkg/research/report"
	"bill-research-be/pkg/research/retrieval"
	"bill-research-be/pkg/research/summarize"

	"gorm.io/gorm"
)

type Container struct {
	ResearchController controller.IResearchController
	BillController     controller.IBillController

	SysLogger *logger.ZapLogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	providers := factory.NewProviderCache(cfg.Ai.LLMProvider, cfg.Ai.OllamaBaseURL, cfg.Keys.OpenAI)
	queryProvider, err := providers.Get(cfg.Ai.QueryModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize query LLM provider: %v", err)
	}
	answerProvider, err := providers.Get(cfg.Ai.AnswerModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize answer LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (query=%s, answer=%s)",
		cfg.Ai.LLMProvider, cfg.Ai.QueryModel, cfg.Ai.AnswerModel)

	pipelineLogger := initPipelineLogger()

	// Stage repositories run read-only queries outside the unit of work.
	stageUow := uowFactory.NewUnitOfWork(context.Background())
	billRepo := stageUow.BillRepository()
	chunkRepo := stageUow.BillChunkRepository()

	pipelineExecutor := executor.NewExecutor(
		query.NewReformulator(queryProvider, pipelineLogger),
		filters.NewExtractor(queryProvider, pipelineLogger),
		retrieval.NewRetriever(embeddingProvider, chunkRepo, billRepo, cfg.Pipeline.TopK, pipelineLogger),
		grading.NewGrader(queryProvider, pipelineLogger),
		reconstruct.NewReconstructor(billRepo, chunkRepo, pipelineLogger),
		summarize.NewSummarizer(queryProvider, pipelineLogger,
			cfg.Pipeline.TruncationChars, cfg.Pipeline.Concurrency, cfg.Pipeline.TaskTimeout),
		report.NewCompiler(answerProvider, pipelineLogger),
		pipelineLogger,
	)

	researchService := service.NewResearchService(uowFactory, pipelineExecutor)
	ingestService := service.NewIngestService(uowFactory, embeddingProvider)

	return &Container{
		ResearchController: controller.NewResearchController(researchService),
		BillController:     controller.NewBillController(ingestService),
		SysLogger:          sysLogger,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "research_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[PIPELINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
