package config

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string
	ServerPort  string
	ContentDir  string
	DataDir     string

	DBType     string // "sqlite" or "postgres"
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	TTSAPIKey string
	STTAPIKey string
	TTSLang   string

	Hearts int
}

func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("PORT", "8080"),
		ContentDir:  getEnv("CONTENT_DIR", "data"),
		DataDir:     getEnv("DATA_DIR", "."),
		DBType:      getEnv("DB_TYPE", "sqlite"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnvInt("DB_PORT", 5432),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "berlingo"),
		SQLitePath:  getEnv("SQLITE_PATH", "berlingo.db"),
		TTSAPIKey:   getEnv("GOOGLE_TTS_API_KEY", ""),
		STTAPIKey:   getEnv("GOOGLE_STT_API_KEY", ""),
		TTSLang:     getEnv("TTS_LANG", "de-DE"),
		Hearts:      getEnvInt("SESSION_HEARTS", 10),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
