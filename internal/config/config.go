package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config carries everything read from the environment at startup.
type Config struct {
	DatabaseURL string
	DemoMode    bool

	Port        int
	JWTSecret   string
	OperatorPIN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	DemoOperator string
}

// placeholderURL reports whether the value is an unfilled template left in the
// environment, which counts the same as no database at all.
func placeholderURL(v string) bool {
	return strings.Contains(v, "YOUR_") || strings.Contains(v, "<") || strings.Contains(v, "changeme")
}

// Load reads configuration from .env (when present) and the environment.
// A missing or placeholder DATABASE_URL switches the service to demo mode.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           8080,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		OperatorPIN:    os.Getenv("OPERATOR_PIN"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		DemoOperator:   getEnv("DEMO_OPERATOR", "Operador"),
	}

	if cfg.DatabaseURL == "" || placeholderURL(cfg.DatabaseURL) {
		cfg.DemoMode = true
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Fatalf("Invalid port %s: %v", portStr, err)
		}
		cfg.Port = port
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
