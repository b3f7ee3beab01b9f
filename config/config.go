package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	JWTSecret     string
	EncryptionKey string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		DBPath:        os.Getenv("DB_PATH"),
		JWTSecret:     getEnvOrDefault("JWT_SECRET", "dev-secret-do-not-use-in-production"),
		EncryptionKey: getEnvOrDefault("ENCRYPTION_KEY", "dev-key-do-not-use-in-production"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
