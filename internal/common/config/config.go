package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string

	LogLevel string
	LogFile  string

	StorageBackend string
	DBPath         string
	DocumentsDir   string
	RedisAddr      string
	RedisPassword  string
	RedisTTL       time.Duration
	RemoteURL      string
	RemoteToken    string

	AutosaveDelay time.Duration
	SaveTimeout   time.Duration

	SVGImportScale   float64
	RenderPxPerMeter float64
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "error", err)
	}

	return &Config{
		Port:         getEnv("PORT", "3001"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		DBPath:         getEnv("DB_PATH", "data/db/planner.db"),
		DocumentsDir:   getEnv("DOCUMENTS_DIR", "data/documents"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTTL:       getEnvAsDuration("REDIS_TTL", 24*time.Hour),
		RemoteURL:      getEnv("DOCUMENT_SERVICE_URL", ""),
		RemoteToken:    getEnv("DOCUMENT_SERVICE_TOKEN", ""),

		AutosaveDelay: getEnvAsDuration("AUTOSAVE_DELAY", time.Second),
		SaveTimeout:   getEnvAsDuration("SAVE_TIMEOUT", 10*time.Second),

		SVGImportScale:   getEnvAsFloat("SVG_IMPORT_SCALE", 0.01),
		RenderPxPerMeter: getEnvAsFloat("RENDER_PX_PER_METER", 50),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
