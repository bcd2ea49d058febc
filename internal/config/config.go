package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OpenAIBaseURL     string
	LLMProvider       string // "openai" or "ollama"
	QueryModel        string // fast model: reformulation, filters, grading, summaries
	AnswerModel       string // strong model: final report
}

// PipelineConfig holds the research pipeline tunables.
type PipelineConfig struct {
	TopK            int
	TruncationChars int
	Concurrency     int
	TaskTimeout     time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			QueryModel:        getEnv("QUERY_MODEL", "gpt-4o-mini"),
			AnswerModel:       getEnv("ANSWER_MODEL", "gpt-4o"),
		},
		Pipeline: PipelineConfig{
			TopK:            getEnvAsInt("PIPELINE_TOP_K", 20),
			TruncationChars: getEnvAsInt("PIPELINE_TRUNCATION_CHARS", 10000),
			Concurrency:     getEnvAsInt("PIPELINE_CONCURRENCY", 4),
			TaskTimeout:     getEnvAsDuration("PIPELINE_TASK_TIMEOUT", 60*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
