package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadPath  string // uploaded batch/story/gallery images land here

	// Low-stock thresholds differ per screen: the plant stock view warns at 10,
	// the consumables view at 20.
	LowStockThresholdPlants      int
	LowStockThresholdConsumables int

	MonitorInterval time.Duration
	DemoMode        bool // force the seeded in-memory store, skip Postgres
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:                     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:                  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=nursery port=5432 sslmode=disable"),
		JWTSecret:                    getEnv("JWT_SECRET", ""),
		CORSOrigins:                  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:                   getEnv("UPLOAD_PATH", "./uploads"),
		LowStockThresholdPlants:      getEnvInt("LOW_STOCK_THRESHOLD_PLANTS", 10),
		LowStockThresholdConsumables: getEnvInt("LOW_STOCK_THRESHOLD_CONSUMABLES", 20),
		MonitorInterval:              time.Duration(getEnvInt("MONITOR_INTERVAL_MINUTES", 30)) * time.Minute,
		DemoMode:                     getEnvBool("DEMO_MODE", false),
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		logrus.Fatal("JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=nursery port=5432 sslmode=disable" && !cfg.DemoMode {
		logrus.Warn("DATABASE_DSN is using the default value; set your own Postgres connection for production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logrus.Warnf("%s is not a valid integer, using default %d", key, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
