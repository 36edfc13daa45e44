package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	MaxUploadSizeBytes int64
	AllowedOrigin      string

	// Price fetching
	PriceAPIURL       string
	PriceFetchTimeout time.Duration
	PriceCacheTTL     time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	priceFetchTimeoutStr := getEnv("PRICE_FETCH_TIMEOUT", "20s")
	priceFetchTimeout, err := time.ParseDuration(priceFetchTimeoutStr)
	if err != nil {
		log.Printf("WARNING: Invalid PRICE_FETCH_TIMEOUT format '%s'. Using default 20s. Error: %v", priceFetchTimeoutStr, err)
		priceFetchTimeout = 20 * time.Second
	}

	priceCacheTTLStr := getEnv("PRICE_CACHE_TTL", "60s")
	priceCacheTTL, err := time.ParseDuration(priceCacheTTLStr)
	if err != nil {
		log.Printf("WARNING: Invalid PRICE_CACHE_TTL format '%s'. Using default 60s. Error: %v", priceCacheTTLStr, err)
		priceCacheTTL = 60 * time.Second
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./cryptofolio.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes: maxUploadSizeBytes,
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		PriceAPIURL:       getEnv("PRICE_API_URL", "https://api.coingecko.com/api/v3/simple/price"),
		PriceFetchTimeout: priceFetchTimeout,
		PriceCacheTTL:     priceCacheTTL,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
